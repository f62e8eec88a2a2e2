// Package brand models the brand profile learned from site content.
package brand

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ContentWriter/internal/extract"
)

// Section names of a brand profile.
const (
	ToneOfVoice             = "tone_of_voice"
	LanguageCharacteristics = "language_characteristics"
	ContentThemes           = "content_themes"
	SEOPatterns             = "seo_patterns"
	BrandGuidelines         = "brand_guidelines"
)

// Sections lists the fixed sections in prompt order.
var Sections = []string{ToneOfVoice, LanguageCharacteristics, ContentThemes, SEOPatterns, BrandGuidelines}

// Value is either a scalar string or a list of strings.
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

// S builds a scalar value.
func S(s string) Value { return Value{Scalar: s} }

// L builds a list value.
func L(items ...string) Value { return Value{List: items, IsList: true} }

// String renders the value for prompts and logs.
func (v Value) String() string {
	if v.IsList {
		return strings.Join(v.List, ", ")
	}
	return v.Scalar
}

// Empty reports whether the value carries nothing.
func (v Value) Empty() bool {
	if v.IsList {
		return len(v.List) == 0
	}
	return strings.TrimSpace(v.Scalar) == ""
}

// MarshalJSON encodes lists as arrays and scalars as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList {
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Scalar)
}

// UnmarshalJSON accepts strings, numbers, booleans, arrays and nested objects.
// Non-string array items and objects are kept as compact JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = Value{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &v.Scalar)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode list value: %w", err)
		}
		v.IsList = true
		for _, item := range raw {
			if s := rawText(item); s != "" {
				v.List = append(v.List, s)
			}
		}
		return nil
	default:
		v.Scalar = rawText(data)
		return nil
	}
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}

// Section maps field names to values.
type Section map[string]Value

// Profile maps section names to sections.
type Profile map[string]Section

// Get returns the value at section/key; absent keys yield the zero Value.
func (p Profile) Get(section, key string) Value {
	return p[section][key]
}

// Scalar returns the scalar text at section/key.
func (p Profile) Scalar(section, key string) string {
	return p.Get(section, key).String()
}

// List returns the list at section/key; a scalar is returned as a one-item list.
func (p Profile) List(section, key string) []string {
	v := p.Get(section, key)
	if v.IsList {
		return v.List
	}
	if strings.TrimSpace(v.Scalar) == "" {
		return nil
	}
	return []string{v.Scalar}
}

// Set stores a value, creating the section when needed.
func (p Profile) Set(section, key string, v Value) {
	if p[section] == nil {
		p[section] = Section{}
	}
	p[section][key] = v
}

// Empty reports whether the profile holds no values at all.
func (p Profile) Empty() bool {
	for _, sec := range p {
		for _, v := range sec {
			if !v.Empty() {
				return false
			}
		}
	}
	return true
}

// SectionJSON renders one section as indented JSON for prompts.
func (p Profile) SectionJSON(section string) string {
	sec := p[section]
	if sec == nil {
		sec = Section{}
	}
	raw, err := json.MarshalIndent(sec, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// Keys returns the sorted keys of a section.
func (s Section) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse extracts a profile from completion text by decoding the first JSON object in it.
// Top-level entries that are not objects are ignored.
func Parse(text string) (Profile, error) {
	var raw map[string]json.RawMessage
	if err := extract.Object(text, &raw); err != nil {
		return nil, fmt.Errorf("parse brand profile: %w", err)
	}
	profile := Profile{}
	for name, body := range raw {
		var sec Section
		if err := json.Unmarshal(body, &sec); err != nil {
			continue
		}
		profile[name] = sec
	}
	if len(profile) == 0 {
		return nil, fmt.Errorf("parse brand profile: %w", extract.ErrNoJSON)
	}
	return profile, nil
}
