package model

// Locality is one entry from the geo lookup service (province, district or
// ward, depending on the query depth).
type Locality struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// AddressSelection is the cascading province/district/ward choice plus the
// free-text street address. Selecting a province resets district and ward;
// selecting a district resets ward.
type AddressSelection struct {
	Province   string
	ProvinceID string
	District   string
	DistrictID string
	Ward       string
	Address    string
}

// Complete reports whether every level of the cascade has been chosen.
func (a AddressSelection) Complete() bool {
	return a.Province != "" && a.District != "" && a.Ward != "" && a.Address != ""
}
