// Package coupons implements the coupon registry and its application to
// order totals. The registry is in-memory engine state; the host layer owns
// the single instance and serializes access, persisting through Store around
// successful mutations.
package coupons

import "sort"

// Registry keeps the known coupons by normalized code, with at most one
// selected for the cart at a time.
type Registry struct {
	byCode   map[string]Coupon
	selected string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]Coupon)}
}

// Load seeds the registry with existing coupons, normalizing codes. Used by
// the host after reading the coupon store at startup.
func (r *Registry) Load(list []Coupon) {
	for _, c := range list {
		c.Code = NormalizeCode(c.Code)
		r.byCode[c.Code] = c
	}
}

// Add registers a new coupon. Fails with ErrDuplicateCode when the normalized
// code is already present, and with *InvalidCouponError on bad field values.
// Returns the stored (normalized) coupon on success.
func (r *Registry) Add(c Coupon) (Coupon, error) {
	if err := c.Validate(); err != nil {
		return Coupon{}, err
	}
	c.Code = NormalizeCode(c.Code)
	if _, exists := r.byCode[c.Code]; exists {
		return Coupon{}, ErrDuplicateCode
	}
	r.byCode[c.Code] = c
	return c, nil
}

// Remove deletes a coupon by code. If the removed coupon is the selected one,
// the selection is cleared too. Fails with ErrNotFound for unknown codes.
func (r *Registry) Remove(code string) error {
	code = NormalizeCode(code)
	if _, exists := r.byCode[code]; !exists {
		return ErrNotFound
	}
	delete(r.byCode, code)
	if r.selected == code {
		r.selected = ""
	}
	return nil
}

// Select marks a coupon as the active one for the cart, gated by CanSelect
// against the current after-discount total.
func (r *Registry) Select(code string, currentTotal int64) error {
	code = NormalizeCode(code)
	c, exists := r.byCode[code]
	if !exists {
		return ErrNotFound
	}
	if err := CanSelect(c, currentTotal); err != nil {
		return err
	}
	r.selected = code
	return nil
}

// ClearSelection de-selects the active coupon, if any.
func (r *Registry) ClearSelection() {
	r.selected = ""
}

// Selected returns the active coupon, or nil when none is selected.
func (r *Registry) Selected() *Coupon {
	if r.selected == "" {
		return nil
	}
	c, exists := r.byCode[r.selected]
	if !exists {
		return nil
	}
	return &c
}

// Get returns the coupon for a code. Returns (Coupon{}, false) when unknown.
func (r *Registry) Get(code string) (Coupon, bool) {
	c, ok := r.byCode[NormalizeCode(code)]
	return c, ok
}

// List returns all coupons ordered by code.
func (r *Registry) List() []Coupon {
	out := make([]Coupon, 0, len(r.byCode))
	for _, c := range r.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
