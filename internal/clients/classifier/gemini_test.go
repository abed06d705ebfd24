package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickybricks/private-aesy-sub003/internal/domain"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Answer
	}{
		{"bare yes", "yes", domain.AnswerYes},
		{"bare no", "no", domain.AnswerNo},
		{"bare partial", "partial", domain.AnswerPartial},
		{"bare unclear", "unclear", domain.AnswerUnclear},
		{"uppercase", "YES", domain.AnswerYes},
		{"trailing period", "No.", domain.AnswerNo},
		{"whitespace", "  partial\n", domain.AnswerPartial},
		{"wrapped in sentence", "The answer is partial, because margins vary.", domain.AnswerPartial},
		{"sentence starting with no", "no, the filings show the opposite", domain.AnswerNo},
		{"empty", "", domain.AnswerUnclear},
		{"gibberish", "the quarterly numbers look normal", domain.AnswerUnclear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAnswer(tt.text))
		})
	}
}
