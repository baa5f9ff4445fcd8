package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTranslate(t *testing.T) {
	cs := New("cs")
	if got := cs.Tr("Sound Mode"); got != "Režim zvuku" {
		t.Fatalf("got %q", got)
	}
	if got := cs.Tr("HF0 test"); got != "HF0 test" {
		t.Fatalf("untranslated string changed: %q", got)
	}
	if cs.Code() != "cs" {
		t.Fatalf("code=%q", cs.Code())
	}
}

func TestMatchFallsBackToEnglish(t *testing.T) {
	if tag := Match("not a tag!"); tag != language.English {
		t.Fatalf("tag=%v", tag)
	}
	if tag := Match("ja"); tag != language.English {
		t.Fatalf("tag=%v", tag)
	}
	if tag := Match("de-AT"); tag != language.German {
		t.Fatalf("tag=%v", tag)
	}
	if got := New("en").Tr("Wizard"); got != "Wizard" {
		t.Fatalf("got %q", got)
	}
}

func TestNilTranslator(t *testing.T) {
	var tr *Translator
	if tr.Tr("x") != "x" {
		t.Fatal("nil translator must pass strings through")
	}
}
