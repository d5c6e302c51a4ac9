// Package geo loads the world boundary reference and joins country
// aggregates onto its features.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pivolan/carbon_analyzer/country"
	"github.com/pivolan/carbon_analyzer/domain/models"
)

// LoadError reports an unreadable or malformed boundary reference.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("geo reference %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
}

// Feature is one country boundary, reduced to what the join needs.
type Feature struct {
	Name     string
	ISO3     string
	Geometry json.RawMessage
}

// Reference is a parsed FeatureCollection. Raw keeps the original document
// so it can be served unchanged to the browser.
type Reference struct {
	Features []Feature
	Raw      []byte
}

var (
	nameProps = []string{"name", "ADMIN", "NAME", "NAME_EN"}
	isoProps  = []string{"ISO_A3", "iso_a3"}
)

const unnamed = "Country"

// LoadReference reads a GeoJSON FeatureCollection from path.
func LoadReference(ctx context.Context, path string) (*Reference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	ref, err := ParseReference(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ref, nil
}

func ParseReference(data []byte) (*Reference, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	ref := &Reference{Features: make([]Feature, 0, len(fc.Features)), Raw: data}
	for _, f := range fc.Features {
		name := firstString(f.Properties, nameProps)
		if name == "" {
			name = unnamed
		}
		ref.Features = append(ref.Features, Feature{
			Name:     name,
			ISO3:     firstString(f.Properties, isoProps),
			Geometry: f.Geometry,
		})
	}
	return ref, nil
}

func firstString(props map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Match pairs a feature with the aggregate joined onto it. Aggregate is nil
// for features without data.
type Match struct {
	Feature   Feature
	Aggregate *models.GroupAggregate
}

// Join looks every feature up in aggs, keyed by canonical country name, first
// by the feature's name and then by its ISO-A3 code. unmatched lists the
// aggregate keys that no feature claimed, sorted.
func (r *Reference) Join(aggs map[string]models.GroupAggregate) (matches []Match, unmatched []string) {
	claimed := map[string]bool{}
	matches = make([]Match, 0, len(r.Features))

	for _, f := range r.Features {
		m := Match{Feature: f}
		key := country.Canonical(f.Name)
		agg, ok := aggs[key]
		if !ok && f.ISO3 != "" {
			key = country.Canonical(f.ISO3)
			agg, ok = aggs[key]
		}
		if ok {
			a := agg
			m.Aggregate = &a
			claimed[key] = true
		}
		matches = append(matches, m)
	}

	for k := range aggs {
		if !claimed[k] {
			unmatched = append(unmatched, k)
		}
	}
	sort.Strings(unmatched)
	return matches, unmatched
}
