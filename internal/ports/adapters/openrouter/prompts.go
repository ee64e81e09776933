package openrouter

import (
	"fmt"
	"strings"

	"github.com/forPelevin/vid2article/internal/domain/document"
)

const correctPrompt = "You are an expert copy editor. Correct the provided transcript for spelling mistakes, " +
	"grammatical errors, and punctuation issues. Keep it clear, professional, and readable. " +
	"Do NOT alter the original meaning and do NOT add new content. " +
	"Return strictly valid JSON (no markdown, no code fences) matching the provided schema."

const mergePrompt = `You are an expert transcriptionist and copy editor. Synthesize two transcripts of the same audio into one comprehensive, corrected master transcript.

The two sources, a "User-Provided Transcript" and an "AI-Generated Transcript", carry equal weight. The result must include all details from both sources without losing any information.

Rules:
1. Compare both transcripts sentence by sentence. Where one captured a phrase or a name the other missed, keep it.
2. While merging, correct spelling, grammar, and punctuation.
3. Do NOT change the meaning of the speech. Combine and correct; never editorialize or add information.
4. Return a single clean block of text as the master transcript, as strictly valid JSON matching the provided schema.`

const analyzePrompt = `You are a meticulous video analysis expert for educational and presentation content. Process the attached video and extract a transcript and a curated set of frame timestamps.

Frame selection rules (non-negotiable):
1. Never select blank screens (black, white, solid color), transitions (fades, wipes, dissolves), motion-blurred frames, or low-information frames (empty slides, "Thank You" or "Q&A" slides).
2. Every selected frame must be critically useful (a key diagram, chart, code snippet, or dense slide), static and sharp, and the set must progress through the video's main topics.
3. Every timestamp must be unique. Do not pick several near-identical frames of the same slide or scene.

Tasks:
1. transcript: a complete and accurate transcript of all spoken content.
2. titleTimestamp: the timestamp in seconds of the single best title frame, ideally the main title of the presentation.
3. inlineTimestamps: up to 9 additional timestamps in seconds for inline illustrations. Fewer distinct, high-quality frames beat 9 poor or repetitive ones; return an empty array if no other good frames exist.
4. Before answering, review every timestamp: is it static, clear, content-rich, distinct from all others, and unique? Replace or remove any that are not.

Return a single JSON object that strictly adheres to the provided schema.`

const organizePrompt = `You are an expert content strategist. You are given a transcript and a set of unordered screenshots, identified by their position in the input (Image 0, Image 1, ...). Decide the order in which they should appear in an article based on the transcript.

Rules:
1. Read the whole transcript to understand its structure, topics, and flow.
2. Pick the single best image as the title (hero) image: the most representative or visually compelling, or a title slide if present.
3. Order the remaining images to follow the topics as they appear in the transcript.
4. Answer with a JSON object with one key, "ordered_indices": the title image index first, then the inline image indices in order. The array must contain every provided index exactly once; for 4 images it contains 0, 1, 2 and 3 in some order.

Example: for 3 images where Image 2 is the title followed by Image 0 then Image 1, answer {"ordered_indices": [2, 0, 1]}.`

const htmlWithImages = `Primary goal: add context and format as a professional article.
1. You are given video screenshots. Use them to understand the visual context and enrich the text; for example, if the transcript mentions "this chart" without describing it and an image shows the chart, add a brief description.`

const htmlWithoutImages = `Primary goal: format as a professional article.
1. Build a well-structured, readable article from the transcript. No images are provided, so the layout is purely text.`

// structureWithImages names the placeholders the assembler later resolves.
func structureWithImages() string {
	return fmt.Sprintf(`4. Content structure and images (critical):
   - The first element in <body> is the main title (<h1>).
   - Title image: the FIRST provided image is the title image. Place it immediately after the <h1> with src="%[1]s".
   - Inline images: place the remaining images where they are relevant, with src="%[2]s", "%[3]s", and so on, in the order provided.
   - Each placeholder from %[1]s to the last provided index must be used exactly once. Never repeat a placeholder.
   - Style the title image with width: 100%%; height: auto; margin: 2rem 0; and inline images with max-width: 100%%; height: auto; display: block; margin: 2rem auto;`,
		document.Placeholder(0), document.Placeholder(1), document.Placeholder(2))
}

const htmlStructureWithoutImages = `4. Content structure:
   - The first element in <body> is the main title (<h1>).
   - No images are provided. Do NOT include any <img> tags or image placeholders such as {{IMAGE_X}}.`

const htmlLayout = `Secondary goal: a professional, Medium-style article page. Follow these rules exactly.

1. Layout:
   - A full HTML document (<!DOCTYPE html>, <html>, <head>, <body>).
   - One centered column: body { max-width: 740px; margin: 4rem auto; padding: 0 20px; }.
   - Light background (#FFFFFF) and dark text (#333333).

2. Styling:
   - All CSS lives in a single <style> tag in <head>. Do NOT use inline style attributes.

3. Typography:
   - font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
   - Paragraphs: font-size: 18px; line-height: 1.7; margin-bottom: 1.5rem;
   - <h1>: font-size: 48px; font-weight: 700;  <h2>: font-size: 32px; font-weight: 600;`

const htmlAnchors = `5. Anchor links (required):
   - Every <h1> and <h2> has a URL-friendly id and wraps its text in an <a> linking to that id, with class "heading-anchor".
   - Style .heading-anchor { color: inherit; text-decoration: none; }
   - Example: <h2 id="my-section-title"><a href="#my-section-title" class="heading-anchor">My Section Title</a></h2>

6. Output: a single JSON object with one key, "htmlContent", holding the entire HTML document.`

func htmlPrompt(hasImages bool) string {
	context, structure := htmlWithoutImages, htmlStructureWithoutImages
	if hasImages {
		context, structure = htmlWithImages, structureWithImages()
	}
	return strings.Join([]string{
		"You are an expert web designer and content strategist. Turn the final transcript below into a single, " +
			"beautiful, accurate, self-contained HTML document. The transcript has already been corrected.",
		context,
		htmlLayout,
		structure,
		htmlAnchors,
	}, "\n\n")
}
