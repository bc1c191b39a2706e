package settings

import (
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sanitize returns a copy of s safe for anonymous readers. Of the integrations
// block only the Stripe publishable key survives.
func Sanitize(s models.SiteSettings) models.SiteSettings {
	out := make(models.SiteSettings, len(s))
	for k, v := range s {
		switch k {
		case "integrations":
			if pub := publicIntegrations(v); pub != nil {
				out[k] = pub
			}
		case "updatedBy":
		default:
			out[k] = v
		}
	}
	return out
}

func publicIntegrations(v interface{}) map[string]interface{} {
	integrations, ok := asMap(v)
	if !ok {
		return nil
	}
	stripe, ok := asMap(integrations["stripe"])
	if !ok {
		return nil
	}
	key, ok := stripe["publishableKey"].(string)
	if !ok || key == "" {
		return nil
	}
	return map[string]interface{}{
		"stripe": map[string]interface{}{"publishableKey": key},
	}
}

// asMap accepts the map shapes produced by the Mongo driver and by JSON decoding.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return m, true
	case models.SiteSettings:
		return m, true
	case primitive.D:
		return m.Map(), true
	}
	return nil, false
}
