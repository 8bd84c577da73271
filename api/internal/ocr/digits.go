package ocr

import (
	"context"
	"strings"

	"digit-ocr/api/internal/util"
)

// CodeLength is the number of digits a successful read returns.
const CodeLength = 4

// SanitizeDigits drops whitespace and every other non-ASCII-digit rune and
// keeps at most CodeLength characters.
func SanitizeDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == CodeLength {
			break
		}
	}
	return b.String()
}

// ReadDigits runs validate -> strip -> decode -> recognize -> sanitize on a
// raw or data-URI base64 image. Every failure is a *RecognitionError.
func ReadDigits(ctx context.Context, eng Engine, imageData string, opt Options) (string, error) {
	if imageData == "" {
		return "", &RecognitionError{Kind: KindMissingInput}
	}
	payload := util.StripBase64Prefix(imageData)
	if payload == "" {
		return "", &RecognitionError{Kind: KindInvalidFormat}
	}
	img, err := util.DecodeBase64(payload)
	if err != nil {
		return "", &RecognitionError{Kind: KindDecode, Err: err}
	}
	return RecognizeDigits(ctx, eng, img, opt)
}

// RecognizeDigits is ReadDigits for already decoded image bytes.
func RecognizeDigits(ctx context.Context, eng Engine, img []byte, opt Options) (string, error) {
	text, err := eng.Recognize(ctx, img, opt)
	if err != nil {
		return "", &RecognitionError{Kind: KindEngine, Err: err}
	}
	digits := SanitizeDigits(text)
	if len(digits) != CodeLength {
		return "", &RecognitionError{Kind: KindInsufficientDigits, Partial: digits}
	}
	return digits, nil
}
