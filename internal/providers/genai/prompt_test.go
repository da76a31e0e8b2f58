package genai

import (
	"strings"
	"testing"
)

func TestBuildRetouchPrompt(t *testing.T) {
	got := BuildRetouchPrompt("remove the blemish", Point{X: 480, Y: 320})
	if !strings.Contains(got, "(480, 320)") {
		t.Fatalf("hotspot coordinate missing from prompt:\n%s", got)
	}
	if !strings.Contains(got, "remove the blemish") {
		t.Fatalf("instruction missing from prompt:\n%s", got)
	}
	if !strings.Contains(got, "refuse any request to change a person's race or ethnicity") {
		t.Fatalf("fairness clause missing from prompt:\n%s", got)
	}
	if !strings.Contains(got, "skin tone") {
		t.Fatalf("skin tone allowance missing from prompt:\n%s", got)
	}
}

func TestBuildGlobalPrompts(t *testing.T) {
	for name, got := range map[string]string{
		"filter":     BuildFilterPrompt("vintage film grain"),
		"adjustment": BuildAdjustmentPrompt("brighten the shadows"),
	} {
		if !strings.Contains(got, fairnessClause) {
			t.Errorf("%s prompt drops the fairness clause:\n%s", name, got)
		}
	}
	if !strings.Contains(BuildFilterPrompt("vintage film grain"), "vintage film grain") {
		t.Fatalf("filter instruction missing")
	}
	if !strings.Contains(BuildAdjustmentPrompt("brighten the shadows"), "brighten the shadows") {
		t.Fatalf("adjustment instruction missing")
	}
}

func TestBuildResizePrompt(t *testing.T) {
	got := BuildResizePrompt(" 16:9 ")
	if !strings.Contains(got, "16:9 canvas") {
		t.Fatalf("aspect missing from prompt:\n%s", got)
	}
}

func TestBuildVariationPrompt(t *testing.T) {
	got := BuildVariationPrompt("on a marble countertop at golden hour")
	if !strings.Contains(got, "on a marble countertop at golden hour") {
		t.Fatalf("scene instruction missing from prompt:\n%s", got)
	}
}
