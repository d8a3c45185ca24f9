package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

func TestReadInputJoinsContinuations(t *testing.T) {
	in := strings.NewReader("первая строка\\\nвторая\n\n   \nещё\nхвост\\\n")
	var got []string
	readInput(context.Background(), in, func(text string) { got = append(got, text) })

	assert.Equal(t, []string{"первая строка\nвторая", "ещё", "хвост"}, got)
}

func TestRenderIndentsContinuationLines(t *testing.T) {
	var out bytes.Buffer
	render(&out, chat.BotMessage("a\nb"))
	render(&out, chat.UserMessage("c"))

	assert.Equal(t, "[Бот] a\n     b\n[Вы] c\n", out.String())
}
