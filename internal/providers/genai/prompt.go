package genai

import (
	"fmt"
	"strings"
)

// fairnessClause is appended to every prompt that could touch a depicted
// person. The policy is expressed in the instruction sent upstream; the
// service is trusted to honor it.
const fairnessClause = "You may adjust skin tone, lighting, and brightness when asked. " +
	"You must refuse any request to change a person's race or ethnicity."

// BuildRetouchPrompt asks for a localized edit anchored at a natural-pixel
// coordinate. The rest of the image must stay untouched.
func BuildRetouchPrompt(instruction string, hotspot Point) string {
	var b strings.Builder
	b.WriteString("Perform a natural, localized edit on the provided image. ")
	fmt.Fprintf(&b, "Focus on the area around pixel (%d, %d). ", hotspot.X, hotspot.Y)
	b.WriteString("Blend the edit seamlessly and leave the rest of the image untouched.\n")
	b.WriteString("Request: ")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n")
	b.WriteString(fairnessClause)
	b.WriteString("\nReturn only the edited image.")
	return b.String()
}

// BuildFilterPrompt asks for a stylistic filter over the whole image without
// changing its composition.
func BuildFilterPrompt(instruction string) string {
	var b strings.Builder
	b.WriteString("Apply a stylistic filter to the entire provided image. ")
	b.WriteString("Do not change the composition or the content, only the style.\n")
	b.WriteString("Filter request: ")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n")
	b.WriteString(fairnessClause)
	b.WriteString("\nReturn only the filtered image.")
	return b.String()
}

// BuildAdjustmentPrompt asks for a global, photorealistic adjustment.
func BuildAdjustmentPrompt(instruction string) string {
	var b strings.Builder
	b.WriteString("Perform a natural, global adjustment to the entire provided image. ")
	b.WriteString("The result must remain photorealistic.\n")
	b.WriteString("Adjustment request: ")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\n")
	b.WriteString(fairnessClause)
	b.WriteString("\nReturn only the adjusted image.")
	return b.String()
}

// BuildResizePrompt asks for the image to be recomposed onto a new canvas
// shape. The target ratio itself travels as the request's aspect hint.
func BuildResizePrompt(aspect string) string {
	var b strings.Builder
	b.WriteString("Recompose the provided image onto a ")
	b.WriteString(strings.TrimSpace(aspect))
	b.WriteString(" canvas. Extend the scene naturally to fill the new shape ")
	b.WriteString("without distorting the subject.\nReturn only the resized image.")
	return b.String()
}

// BuildVariationPrompt stages the pictured product for an ad creative per
// the preset instruction.
func BuildVariationPrompt(instruction string) string {
	var b strings.Builder
	b.WriteString("Create an advertising photo from the provided product image. ")
	b.WriteString("Keep the product itself accurate and undistorted.\n")
	b.WriteString("Scene: ")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\nReturn only the generated image.")
	return b.String()
}
