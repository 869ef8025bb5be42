package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"farmcare/models"
	"farmcare/normalizer"
)

const titleRunes = 60

// object is a decoded JSON object whose fields are looked up by alias.
type object map[string]json.RawMessage

// get decodes the first present, non-null key that unmarshals into dst.
func (o object) get(dst any, keys ...string) bool {
	for _, k := range keys {
		raw, ok := o[k]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, dst); err == nil {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Text accepts a string, number, bool or list and keeps it as one string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Text(strings.Join(toStrings(raw), "; "))
	return nil
}

// StringList accepts a string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = toStrings(raw)
	return nil
}

// Score accepts a number or a numeric string with an optional percent sign.
type Score struct {
	Value float64
	Valid bool
}

func (s *Score) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		s.Value, s.Valid = v, true
	case string:
		num := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			s.Value, s.Valid = f, true
		}
	}
	return nil
}

func (s Score) ptr() *float64 {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// flag accepts a bool or a "true"/"false" string.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*f = flag(v)
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(v))
		*f = flag(parsed)
	}
	return nil
}

// OrganicList accepts a string, an object or a list of either.
type OrganicList []models.OrganicTreatment

func (l *OrganicList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	var out OrganicList
	for _, item := range items {
		var t models.OrganicTreatment
		switch v := item.(type) {
		case string:
			s := strings.TrimSpace(v)
			t = models.OrganicTreatment{Title: truncate(s, titleRunes), Description: s}
		case map[string]any:
			t = models.OrganicTreatment{
				Title:       pick(v, "title", "name", "method"),
				Description: pick(v, "description", "details", "usage", "application"),
			}
		}
		if t.Title != "" || t.Description != "" {
			out = append(out, t)
		}
	}
	*l = capped(out, models.MaxOrganicTreatments)
	return nil
}

// ChemicalList accepts a string, an object or a list of either.
type ChemicalList []models.ChemicalTreatment

func (l *ChemicalList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	var out ChemicalList
	for _, item := range items {
		var t models.ChemicalTreatment
		switch v := item.(type) {
		case string:
			s := strings.TrimSpace(v)
			t = models.ChemicalTreatment{ActiveIngredient: truncate(s, titleRunes), Usage: s}
		case map[string]any:
			t = models.ChemicalTreatment{
				ActiveIngredient: pick(v, "activeIngredient", "active_ingredient", "title", "name"),
				Usage:            pick(v, "usage", "description", "dosage"),
				Caution:          pick(v, "caution", "warning", "precaution"),
			}
		}
		if t.ActiveIngredient != "" || t.Usage != "" {
			out = append(out, t)
		}
	}
	*l = capped(out, models.MaxChemicalTreatments)
	return nil
}

// ProductList accepts pesticideProducts entries under their historical keys.
type ProductList []models.PesticideProduct

func (l *ProductList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	var out ProductList
	for _, item := range items {
		var p models.PesticideProduct
		switch v := item.(type) {
		case string:
			p.ProductName = strings.TrimSpace(v)
		case map[string]any:
			p = models.PesticideProduct{
				ProductName:      pick(v, "productName", "product_name", "name"),
				Type:             pick(v, "type", "category"),
				ActiveIngredient: pick(v, "activeIngredient", "active_ingredient", "active_ingredients"),
				Price:            pick(v, "price", "price_range", "priceRange"),
				PurchaseURL:      pick(v, "purchaseUrl", "purchase_url", "buy_link", "url", "link"),
				Seller:           pick(v, "seller", "website", "store"),
			}
		}
		if p.ProductName != "" {
			out = append(out, p)
		}
	}
	*l = capped(out, models.MaxPesticideProducts)
	return nil
}

// IndiaProductList decodes the legacy india_specific_products list.
type IndiaProductList []normalizer.IndiaProduct

func (l *IndiaProductList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	var out IndiaProductList
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := normalizer.IndiaProduct{
			Name:              pick(m, "name", "productName"),
			Type:              pick(m, "type"),
			ActiveIngredients: pick(m, "active_ingredients", "activeIngredient"),
			Dosage:            pick(m, "dosage"),
			ApplicationMethod: pick(m, "application_method"),
			BuyLink:           pick(m, "buy_link", "url"),
			PriceRange:        pick(m, "price_range", "price"),
		}
		if p.Name != "" {
			out = append(out, p)
		}
	}
	*l = capped(out, models.MaxPesticideProducts)
	return nil
}

// LinkList decodes indianBuyingLinks.
type LinkList []normalizer.BuyingLink

func (l *LinkList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	out := LinkList{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		link := normalizer.BuyingLink{
			Category:    pick(m, "category", "type"),
			Website:     pick(m, "website", "seller", "name"),
			URL:         pick(m, "url", "link"),
			Description: pick(m, "description"),
		}
		if link.Website != "" || link.URL != "" || link.Description != "" {
			out = append(out, link)
		}
	}
	*l = capped(out, models.MaxPesticideProducts)
	return nil
}

// LowList decodes lowConfidenceResults.
type LowList []normalizer.LowResult

func (l *LowList) UnmarshalJSON(b []byte) error {
	items, err := decodeItems(b)
	if err != nil {
		return err
	}
	var out LowList
	for _, item := range items {
		var r normalizer.LowResult
		switch v := item.(type) {
		case string:
			r.DiseaseName = strings.TrimSpace(v)
		case map[string]any:
			r = normalizer.LowResult{
				DiseaseName:    pick(v, "diseaseName", "disease_name", "class", "name"),
				PreventionTips: pick(v, "preventionTips", "preventionTip", "prevention"),
			}
		}
		if r.DiseaseName != "" {
			out = append(out, r)
		}
	}
	*l = out
	return nil
}

// decodeItems treats a lone value as a one-element list.
func decodeItems(b []byte) ([]any, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return []any{v}, nil
	}
}

// pick returns the first non-empty value among keys, as text.
func pick(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := strings.Join(toStrings(v), "; "); s != "" {
				return s
			}
		}
	}
	return ""
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case float64:
		return []string{strconv.FormatFloat(t, 'f', -1, 64)}
	case bool:
		return []string{strconv.FormatBool(t)}
	case []any:
		var out []string
		for _, e := range t {
			out = append(out, toStrings(e)...)
		}
		return out
	case map[string]any:
		if title, desc := pick(t, "title", "name"), pick(t, "description"); title != "" && desc != "" {
			return []string{title + " - " + desc}
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, toStrings(t[k])...)
		}
		if len(parts) == 0 {
			return nil
		}
		return []string{strings.Join(parts, " - ")}
	default:
		return []string{fmt.Sprint(t)}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func capped[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
