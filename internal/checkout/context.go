package checkout

import (
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/geo"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Origin is the entry path that produced the checkout context. Submission
// switches on it exhaustively; a buy-now flow must never also submit the
// user's unrelated cart contents.
type Origin int

const (
	// OriginCart covers both an explicit item selection and the
	// default-all-cart entry; the server reads the authoritative cart at
	// submission.
	OriginCart Origin = iota
	// OriginBuyNow is a single product with an explicit quantity, bypassing
	// the cart entirely.
	OriginBuyNow
)

func (o Origin) String() string {
	switch o {
	case OriginCart:
		return "cart"
	case OriginBuyNow:
		return "buy-now"
	default:
		return "unknown"
	}
}

// Payment methods offered at checkout.
const (
	PaymentCOD    = "cod"
	PaymentVNPay  = "vnpay"
	PaymentCredit = "credit"
)

// Item is a product+quantity entry being checked out.
type Item struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

// Form is the customer-facing checkout form state.
type Form struct {
	FullName      string
	PhoneNumber   string
	Email         string
	Address       model.AddressSelection
	DeliveryNotes string

	ShippingMethod geo.ShippingMethod
	PaymentMethod  string

	// Card fields, only relevant when PaymentMethod is PaymentCredit.
	CardNumber string
	CVV        string
	ExpiryDate string

	DiscountCode string
}

// Context is built once when entering checkout and is not mutated by
// navigating away and back.
type Context struct {
	Origin Origin
	Items  []Item
	Form   Form
}

// NewFromBuyNow builds a checkout context for a single product.
func NewFromBuyNow(product model.Product, quantity int) *Context {
	return &Context{
		Origin: OriginBuyNow,
		Items: []Item{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		}},
		Form: defaultForm(),
	}
}

// NewFromCartSelection builds a checkout context for a checked subset of
// cart items.
func NewFromCartSelection(items []model.CartItem) *Context {
	return &Context{
		Origin: OriginCart,
		Items:  cartItems(items),
		Form:   defaultForm(),
	}
}

// NewFromFullCart builds a checkout context for the entire cart, the default
// when no explicit selection was made.
func NewFromFullCart(cart *model.Cart) *Context {
	var items []model.CartItem
	if cart != nil {
		items = cart.Items
	}
	return &Context{
		Origin: OriginCart,
		Items:  cartItems(items),
		Form:   defaultForm(),
	}
}

func cartItems(items []model.CartItem) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Price:     item.ProductPrice,
			Image:     item.ProductImage,
			Quantity:  item.Quantity,
		}
	}
	return out
}

func defaultForm() Form {
	return Form{
		ShippingMethod: geo.ShippingStandard,
		PaymentMethod:  PaymentCOD,
	}
}

// PrefillFromProfile fills empty customer fields from the user's profile.
func (c *Context) PrefillFromProfile(user *model.User) {
	if user == nil {
		return
	}
	if c.Form.FullName == "" {
		c.Form.FullName = user.Fullname
	}
	if c.Form.PhoneNumber == "" {
		c.Form.PhoneNumber = user.Phone
	}
	if c.Form.Email == "" {
		c.Form.Email = user.Email
	}
	if c.Form.Address.Address == "" {
		c.Form.Address.Address = user.Address
	}
}

// Subtotal sums item prices times quantities.
func (c *Context) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ShippingFee computes the fee for the selected province and method.
func (c *Context) ShippingFee() decimal.Decimal {
	return geo.ShippingFee(c.Form.Address.Province, c.Form.ShippingMethod)
}

// Total is subtotal plus shipping.
func (c *Context) Total() decimal.Decimal {
	return c.Subtotal().Add(c.ShippingFee())
}
