package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guru-ai/coursechat/backend/internal/model/chat"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		text   string
		source Source
	}{
		{"list", `[{"output":"Hi"}]`, "Hi", SourceList},
		{"object", `{"output":"Hi"}`, "Hi", SourceObject},
		{"encoded list", `"[{\"output\":\"Hi\"}]"`, "Hi", SourceEncodedList},
		{"encoded object", `"{\"output\":\"Hi\"}"`, "Hi", SourceEncodedObject},
		{"unknown object", `{"foo":"bar"}`, chat.AcknowledgementText, SourceDefault},
		{"empty list", `[]`, chat.AcknowledgementText, SourceDefault},
		{"list without output", `[{"text":"Hi"}]`, chat.AcknowledgementText, SourceDefault},
		{"list of strings", `["Hi"]`, chat.AcknowledgementText, SourceDefault},
		{"null output", `{"output":null}`, chat.AcknowledgementText, SourceDefault},
		{"empty output", `{"output":""}`, chat.AcknowledgementText, SourceDefault},
		{"plain text body", `Hello there`, chat.AcknowledgementText, SourceDefault},
		{"encoded garbage", `"not json"`, chat.AcknowledgementText, SourceDefault},
		{"empty body", ``, chat.AcknowledgementText, SourceDefault},
		{"number", `42`, chat.AcknowledgementText, SourceDefault},
		{"numeric output", `{"output":12.50}`, "12.50", SourceObject},
		{"bool output", `[{"output":true}]`, "true", SourceList},
		{"only first element counts", `[{"foo":1},{"output":"second"}]`, chat.AcknowledgementText, SourceDefault},
		{"doubly encoded stops after one level", `"\"{\\\"output\\\":\\\"Hi\\\"}\""`, chat.AcknowledgementText, SourceDefault},
		{"trailing data", `{"output":"Hi"} {}`, chat.AcknowledgementText, SourceDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize([]byte(tc.body))
			assert.Equal(t, tc.text, got.Text)
			assert.Equal(t, tc.source, got.Source, "source was %s", got.Source)
		})
	}
}

func TestNormalizeLegacy(t *testing.T) {
	assert.Equal(t, Reply{Text: "Hi", Source: SourceObject}, NormalizeLegacy([]byte(`{"message":"Hi"}`)))
	assert.True(t, NormalizeLegacy([]byte(`{"message":""}`)).Defaulted())
	assert.True(t, NormalizeLegacy([]byte(`{"output":"Hi"}`)).Defaulted())
	assert.True(t, NormalizeLegacy([]byte(`"Hi"`)).Defaulted())
	assert.True(t, NormalizeLegacy([]byte(`oops`)).Defaulted())
}
