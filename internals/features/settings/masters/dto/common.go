package dto

import "strings"

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// activeOr: flag dari form, kalau tidak dikirim pakai nilai lama (create → true).
func activeOr(v *bool, current bool) bool {
	if v == nil {
		return current
	}
	return *v
}

// LookupRequest: master sederhana (kategori interaksi, alasan batal).
type LookupRequest struct {
	Name      string `json:"name" form:"name" validate:"required,min=2,max=150"`
	SortOrder *int   `json:"sort_order" form:"sort_order" validate:"omitempty,gte=0"`
	IsActive  *bool  `json:"is_active" form:"is_active"`
}

func (r *LookupRequest) Normalize() {
	r.Name = strings.Join(strings.Fields(r.Name), " ")
}
