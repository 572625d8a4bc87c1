package helper

import (
	"net/url"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParseUUIDParam: id path yang bukan UUID diperlakukan sama dengan id yang tidak ada (404).
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Data tidak ditemukan")
	}
	return id, nil
}

// ParseOptionalUUID: "" → nil; format salah → error 400.
func ParseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" tidak valid")
	}
	return &id, nil
}

// Filters: filter list yang aktif, dikembalikan ke FE supaya URL bisa di-deep-link.
type Filters struct {
	Values map[string]string `json:"values"`
	Query  string            `json:"query"`
}

// CollectFilters mengambil query param yang diizinkan (trim, kosong dibuang) dan
// menyusun query string kanonik (urut key) termasuk page bila > 1.
func CollectFilters(c *fiber.Ctx, keys ...string) *Filters {
	f := &Filters{Values: map[string]string{}}
	q := url.Values{}
	for _, k := range keys {
		v := strings.TrimSpace(c.Query(k))
		if v == "" {
			continue
		}
		f.Values[k] = v
		q.Set(k, v)
	}
	if p := strings.TrimSpace(c.Query("page")); p != "" && p != "1" {
		q.Set("page", p)
	}
	f.Query = encodeSorted(q)
	return f
}

func encodeSorted(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.Get(k)))
	}
	return b.String()
}

// Get: nilai filter (kosong kalau tidak ada).
func (f *Filters) Get(k string) string {
	if f == nil {
		return ""
	}
	return f.Values[k]
}

// ParseOptionalBool: "" → nil; "true/1/yes" dan "false/0/no".
func ParseOptionalBool(raw, field string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "true", "1", "yes":
		v := true
		return &v, nil
	case "false", "0", "no":
		v := false
		return &v, nil
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, field+" harus true/false")
}
