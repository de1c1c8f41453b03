package provider

import (
	"github.com/tiktoken-go/tokenizer"
)

func codecForModel(model string) (tokenizer.Codec, error) {
	enc, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		// newer models are not known to the tokenizer, cl100k is close enough for estimates
		return tokenizer.Get(tokenizer.Cl100kBase)
	}
	return enc, nil
}

// CountTokens estimates how many tokens text takes for model. It returns 0
// when no encoding is available.
func CountTokens(text, model string) int {
	if text == "" {
		return 0
	}
	enc, err := codecForModel(model)
	if err != nil {
		return 0
	}
	ids, _, err := enc.Encode(text)
	if err != nil {
		return 0
	}
	return len(ids)
}
