package proxmox

import (
	"net/url"
	"strconv"
	"strings"
)

// Params collects request parameters for create and update calls. The API
// takes form-encoded key/value pairs; booleans travel as 0/1 and lists as
// comma-separated strings.
type Params map[string]string

// NewParams returns an empty parameter set.
func NewParams() Params { return Params{} }

// Set stores a string value. Empty values are skipped so callers can pass
// optional fields through unconditionally.
func (p Params) Set(key, value string) Params {
	if value != "" {
		p[key] = value
	}
	return p
}

// SetAlways stores a value even when empty, for fields where the empty
// string is meaningful (clearing a comment).
func (p Params) SetAlways(key, value string) Params {
	p[key] = value
	return p
}

// SetInt stores an integer value. Zero is skipped.
func (p Params) SetInt(key string, value int) Params {
	if value != 0 {
		p[key] = strconv.Itoa(value)
	}
	return p
}

// SetIntAlways stores an integer value including zero.
func (p Params) SetIntAlways(key string, value int) Params {
	p[key] = strconv.Itoa(value)
	return p
}

// SetBool stores a boolean as 0/1. Nil pointers are skipped, so optional
// tristate flags only hit the wire when the manifest sets them.
func (p Params) SetBool(key string, value *bool) Params {
	if value == nil {
		return p
	}
	if *value {
		p[key] = "1"
	} else {
		p[key] = "0"
	}
	return p
}

// SetList stores a slice as a comma-separated string.
func (p Params) SetList(key string, values []string) Params {
	if len(values) > 0 {
		p[key] = strings.Join(values, ",")
	}
	return p
}

// Values converts to url.Values for the request body.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for key, value := range p {
		v.Set(key, value)
	}
	return v
}
