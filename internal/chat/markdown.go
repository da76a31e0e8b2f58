package chat

import "regexp"

// SegmentKind discriminates rendering segments.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
	SegmentLink  SegmentKind = "link"
)

// Segment is one typed piece of a chat message for the rendering layer:
// plain text, an embedded image, or a hyperlink. Text holds the alt text for
// images and the label for links.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

var (
	imageMarkdownRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkMarkdownRe  = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	bareImageURLRe  = regexp.MustCompile(`(?i)https?://[^\s()]+\.(?:png|jpe?g|gif|webp)(?:\?[^\s()]*)?`)
)

// Segments tokenizes message text in two passes: an image pass (markdown
// image syntax and bare image URLs), then a link pass over the remaining
// plain chunks. Unrecognized text passes through verbatim.
func Segments(text string) []Segment {
	var out []Segment
	for _, seg := range imagePass(text) {
		if seg.Kind == SegmentText {
			out = append(out, linkPass(seg.Text)...)
			continue
		}
		out = append(out, seg)
	}
	return out
}

const (
	matchImageMarkdown = iota
	matchLink
	matchBareURL
)

// imagePass splits out image segments, leaving everything else, markdown
// links included, as text for the second pass. A bare image URL inside a
// markdown link belongs to the link, so link spans are skipped whole.
func imagePass(text string) []Segment {
	var out []Segment
	plainStart := 0
	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		img := imageMarkdownRe.FindStringSubmatchIndex(rest)
		link := linkMarkdownRe.FindStringIndex(rest)
		bare := bareImageURLRe.FindStringIndex(rest)

		next, what := -1, matchImageMarkdown
		if img != nil {
			next = img[0]
		}
		if link != nil && (next < 0 || link[0] < next) {
			next, what = link[0], matchLink
		}
		if bare != nil && (next < 0 || bare[0] < next) {
			next, what = bare[0], matchBareURL
		}
		if next < 0 {
			break
		}

		switch what {
		case matchImageMarkdown:
			if s := text[plainStart : pos+img[0]]; s != "" {
				out = append(out, Segment{Kind: SegmentText, Text: s})
			}
			out = append(out, Segment{
				Kind: SegmentImage,
				Text: rest[img[2]:img[3]],
				URL:  rest[img[4]:img[5]],
			})
			pos += img[1]
			plainStart = pos
		case matchLink:
			// Keep the link span intact for the link pass.
			pos += link[1]
		case matchBareURL:
			if s := text[plainStart : pos+bare[0]]; s != "" {
				out = append(out, Segment{Kind: SegmentText, Text: s})
			}
			out = append(out, Segment{Kind: SegmentImage, URL: rest[bare[0]:bare[1]]})
			pos += bare[1]
			plainStart = pos
		}
	}
	if s := text[plainStart:]; s != "" {
		out = append(out, Segment{Kind: SegmentText, Text: s})
	}
	return out
}

// linkPass splits markdown links out of a plain chunk.
func linkPass(text string) []Segment {
	var out []Segment
	for len(text) > 0 {
		m := linkMarkdownRe.FindStringSubmatchIndex(text)
		if m == nil {
			break
		}
		if s := text[:m[0]]; s != "" {
			out = append(out, Segment{Kind: SegmentText, Text: s})
		}
		out = append(out, Segment{
			Kind: SegmentLink,
			Text: text[m[2]:m[3]],
			URL:  text[m[4]:m[5]],
		})
		text = text[m[1]:]
	}
	if text != "" {
		out = append(out, Segment{Kind: SegmentText, Text: text})
	}
	return out
}
