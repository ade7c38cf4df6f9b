package orders

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/angelmondragon/homeservices-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

// AddressValidator checks detail_address payloads against the configured key whitelist.
type AddressValidator struct {
	allowed         map[string]struct{}
	locationAllowed map[string]struct{}
}

func NewAddressValidator(cfg config.AddressConfig) *AddressValidator {
	return &AddressValidator{
		allowed:         toSet(cfg.AllowedFields),
		locationAllowed: toSet(cfg.LocationAllowedFields),
	}
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// Validate returns the normalized address. Unknown keys, missing city,
// district or sub_district, a non-numeric zip code and out of range
// coordinates all fail.
func (v *AddressValidator) Validate(raw map[string]any) (types.DetailAddress, error) {
	if len(raw) == 0 {
		return types.DetailAddress{}, pkgerrors.Field("detail_address", "is required")
	}
	for key := range raw {
		if _, ok := v.allowed[key]; !ok {
			return types.DetailAddress{}, pkgerrors.Field("detail_address."+key, "is not an allowed field")
		}
	}

	var addr types.DetailAddress
	var err error
	if addr.City, err = requiredText(raw, "city"); err != nil {
		return types.DetailAddress{}, err
	}
	if addr.District, err = requiredText(raw, "district"); err != nil {
		return types.DetailAddress{}, err
	}
	if addr.SubDistrict, err = requiredText(raw, "sub_district"); err != nil {
		return types.DetailAddress{}, err
	}
	if addr.ZipCode, err = zipCode(raw["zip_code"]); err != nil {
		return types.DetailAddress{}, err
	}
	addr.Address = optionalText(raw["address"])
	addr.Notes = optionalText(raw["notes"])

	if loc, ok := raw["location"]; ok && loc != nil {
		location, err := v.location(loc)
		if err != nil {
			return types.DetailAddress{}, err
		}
		addr.Location = location
	}
	return addr, nil
}

func (v *AddressValidator) location(raw any) (*types.Location, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, pkgerrors.Field("detail_address.location", "must be an object")
	}
	for key := range obj {
		if _, ok := v.locationAllowed[key]; !ok {
			return nil, pkgerrors.Field("detail_address.location."+key, "is not an allowed field")
		}
	}
	lat, ok := toFloat(obj["lat"])
	if !ok || lat < -90 || lat > 90 {
		return nil, pkgerrors.Field("detail_address.location.lat", "must be a number between -90 and 90")
	}
	lng, ok := toFloat(obj["lng"])
	if !ok || lng < -180 || lng > 180 {
		return nil, pkgerrors.Field("detail_address.location.lng", "must be a number between -180 and 180")
	}
	return &types.Location{Lat: lat, Lng: lng}, nil
}

func requiredText(raw map[string]any, key string) (string, error) {
	s, ok := raw[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", pkgerrors.Field("detail_address."+key, "is required")
	}
	return strings.TrimSpace(s), nil
}

func optionalText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func zipCode(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		s = strings.TrimSpace(t)
	case float64:
		if t < 0 || t != math.Trunc(t) {
			return "", pkgerrors.Field("detail_address.zip_code", "must contain digits only")
		}
		s = strconv.FormatFloat(t, 'f', 0, 64)
	case json.Number:
		s = t.String()
	default:
		return "", pkgerrors.Field("detail_address.zip_code", "must contain digits only")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", pkgerrors.Field("detail_address.zip_code", "must contain digits only")
		}
	}
	return s, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}
