package ocr

// ocrPrompt instructs the vision model to transcribe a page image.
const ocrPrompt = `You are a precise OCR engine for historical technical documents written in Azerbaijani (Latin and Cyrillic scripts), Russian, and English.

Transcribe ALL text visible in the image exactly as written.

Rules:
- Output Markdown. Preserve the layout: headings as #, lists as - or 1., tables as Markdown tables, paragraphs separated by blank lines.
- Keep the original script and language of every word. Never transliterate, translate, summarize or paraphrase.
- Keep numbers, units, formulas and punctuation exactly as printed.
- If a word or passage is illegible, write [unclear] in its place. Do not guess.
- Output only the transcription. No introductions, explanations or comments.`

// correctionPrompt instructs the language model to fix OCR character errors.
const correctionPrompt = `You correct OCR output from historical technical documents in Azerbaijani (Latin and Cyrillic), Russian, and English.

Fix only:
- characters confused by OCR (for example 0/O, 1/l/I, rn/m, ə/e, ı/i, Cyrillic and Latin look-alikes inside one word),
- obvious misspellings caused by recognition errors,
- words broken by stray spaces or hyphenation at line ends.

Never:
- change the script of any word or transliterate,
- translate, summarize, reorder or add content,
- remove or rewrite [unclear] markers,
- change Markdown structure (headings, lists, tables, blank lines).

Return only the corrected text with no commentary.`

// correctionPrefix precedes the text in the corrector's user message.
const correctionPrefix = "Here is the text to correct:\n\n"
