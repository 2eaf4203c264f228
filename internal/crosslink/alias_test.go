package crosslink

import (
	"reflect"
	"testing"
)

func TestCamelToSpaced_SimplePascalCase(t *testing.T) {
	got := CamelToSpaced("VectorStore")
	want := "Vector Store"
	if got != want {
		t.Errorf("CamelToSpaced(%q) = %q, want %q", "VectorStore", got, want)
	}
}

func TestCamelToSpaced_AcronymRunStaysTogether(t *testing.T) {
	got := CamelToSpaced("HTTPClient")
	want := "HTTP Client"
	if got != want {
		t.Errorf("CamelToSpaced(%q) = %q, want %q", "HTTPClient", got, want)
	}
}

func TestCamelToSpaced_DigitBoundary(t *testing.T) {
	got := CamelToSpaced("Chunk2Vector")
	want := "Chunk2 Vector"
	if got != want {
		t.Errorf("CamelToSpaced(%q) = %q, want %q", "Chunk2Vector", got, want)
	}
}

func TestCamelToSpaced_SingleWord_Unchanged(t *testing.T) {
	got := CamelToSpaced("Chunk")
	if got != "Chunk" {
		t.Errorf("CamelToSpaced(%q) = %q, want unchanged", "Chunk", got)
	}
}

func TestAliasesFor_IncludesNameRegisteredAndSpacedForm(t *testing.T) {
	got := aliasesFor("VectorStore", []string{"VS"})
	want := []string{"VectorStore", "VS", "Vector Store"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("aliasesFor = %v, want %v", got, want)
	}
}

func TestAliasesFor_NoDuplicateWhenSpacedFormAlreadyRegistered(t *testing.T) {
	got := aliasesFor("VectorStore", []string{"Vector Store"})
	want := []string{"VectorStore", "Vector Store"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("aliasesFor = %v, want %v", got, want)
	}
}

func TestAliasesFor_SingleWordHasNoSpacedVariant(t *testing.T) {
	got := aliasesFor("Chunk", nil)
	want := []string{"Chunk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("aliasesFor = %v, want %v", got, want)
	}
}
