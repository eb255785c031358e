package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestKeywordExtractorParsesModelOutput(t *testing.T) {
	gen := &fakeGenerator{script: []string{
		`Here are the keywords:`,
		`Here are the keywords: ["neutron star", "gravitational waves", ""]`,
	}}
	k := NewKeywordExtractor(gen)

	got := k.Extract(context.Background(), "what do the papers say about neutron stars and gravitational waves?")

	want := []string{"neutron star", "gravitational waves"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
	if gen.lastSystem != keywordSystemPrompt {
		t.Error("keyword system prompt not sent")
	}
}

func TestKeywordExtractorFallsBackOnBadJSON(t *testing.T) {
	gen := &fakeGenerator{script: []string{"I cannot produce JSON, sorry."}}
	k := NewKeywordExtractor(gen)

	got := k.Extract(context.Background(), "How does the quenching mechanism affect galaxies?")

	want := []string{"does", "quenching", "mechanism", "affect", "galaxies"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want fallback %v", got, want)
	}
}

func TestKeywordExtractorFallsBackOnModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unreachable")}
	k := NewKeywordExtractor(gen)

	got := k.Extract(context.Background(), "spectral lines in the survey")

	want := []string{"spectral", "lines", "survey"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want fallback %v", got, want)
	}
}

func TestFallbackKeywordsFiltersStopwords(t *testing.T) {
	got := fallbackKeywords("What could the authors have found between observations?")
	want := []string{"authors", "found", "observations"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallbackKeywords() = %v, want %v", got, want)
	}
}
