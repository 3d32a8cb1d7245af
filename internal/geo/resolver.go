package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Lookup depths of the third-party geo service.
const (
	depthProvince = 1
	depthDistrict = 2
	depthWard     = 3
)

// ErrStale marks a lookup response that arrived after its selection was
// superseded; the caller discards it.
var ErrStale = errors.New("lookup superseded by a newer selection")

// Resolver drives the cascading province → district → ward selection.
// Selecting a province clears district and ward and fetches districts;
// selecting a district clears ward and fetches wards. Late responses for a
// superseded selection are discarded via a per-level sequence counter.
type Resolver struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu          sync.Mutex
	selection   model.AddressSelection
	provinces   []model.Locality
	districts   []model.Locality
	wards       []model.Locality
	districtSeq uint64
	wardSeq     uint64
}

// NewResolver creates a resolver against an esgoo-style lookup service.
func NewResolver(baseURL string, timeout time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "geo").Logger(),
	}
}

// LoadProvinces fetches the top-level province list.
func (r *Resolver) LoadProvinces(ctx context.Context) ([]model.Locality, error) {
	items, err := r.fetch(ctx, depthProvince, "0")
	if err != nil {
		r.logger.Warn().Err(err).Msg("province lookup failed")
		return nil, err
	}

	r.mu.Lock()
	r.provinces = items
	r.mu.Unlock()
	return items, nil
}

// SelectProvince records the province, clears district and ward, and fetches
// the district list. The clear happens before the fetch, so downstream
// selections never outlive their parent regardless of fetch latency.
func (r *Resolver) SelectProvince(ctx context.Context, province model.Locality) ([]model.Locality, error) {
	r.mu.Lock()
	r.selection.Province = province.FullName
	r.selection.ProvinceID = province.ID
	r.selection.District = ""
	r.selection.DistrictID = ""
	r.selection.Ward = ""
	r.districts = nil
	r.wards = nil
	r.districtSeq++
	r.wardSeq++
	seq := r.districtSeq
	r.mu.Unlock()

	items, err := r.fetch(ctx, depthDistrict, province.ID)
	if err != nil {
		r.logger.Warn().Str("province", province.FullName).Err(err).Msg("district lookup failed")
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.districtSeq {
		return nil, ErrStale
	}
	r.districts = items
	return items, nil
}

// SelectDistrict records the district, clears ward, and fetches the ward
// list.
func (r *Resolver) SelectDistrict(ctx context.Context, district model.Locality) ([]model.Locality, error) {
	r.mu.Lock()
	if r.selection.ProvinceID == "" {
		r.mu.Unlock()
		return nil, fmt.Errorf("no province selected")
	}
	r.selection.District = district.FullName
	r.selection.DistrictID = district.ID
	r.selection.Ward = ""
	r.wards = nil
	r.wardSeq++
	seq := r.wardSeq
	r.mu.Unlock()

	items, err := r.fetch(ctx, depthWard, district.ID)
	if err != nil {
		r.logger.Warn().Str("district", district.FullName).Err(err).Msg("ward lookup failed")
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.wardSeq {
		return nil, ErrStale
	}
	r.wards = items
	return items, nil
}

// SelectWard records the ward.
func (r *Resolver) SelectWard(ward model.Locality) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection.Ward = ward.FullName
}

// SetAddress records the free-text street address.
func (r *Resolver) SetAddress(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection.Address = address
}

// Selection returns the current address selection.
func (r *Resolver) Selection() model.AddressSelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection
}

// Districts returns the district options for the selected province.
func (r *Resolver) Districts() []model.Locality {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.districts
}

// Wards returns the ward options for the selected district.
func (r *Resolver) Wards() []model.Locality {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wards
}

// lookupResponse is the service's wire shape; error 0 means success.
type lookupResponse struct {
	Error int              `json:"error"`
	Data  []model.Locality `json:"data"`
}

func (r *Resolver) fetch(ctx context.Context, depth int, parentID string) ([]model.Locality, error) {
	url := fmt.Sprintf("%s/%d/%s.htm", r.baseURL, depth, parentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed lookup response: %w", err)
	}
	if payload.Error != 0 || payload.Data == nil {
		return nil, fmt.Errorf("lookup rejected request (error %d)", payload.Error)
	}
	return payload.Data, nil
}
