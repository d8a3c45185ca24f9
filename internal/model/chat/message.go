package chat

import "strings"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message is one immutable turn of the conversation.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// UserMessage builds a message authored by the visitor.
func UserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

// BotMessage builds a message authored by the bot.
func BotMessage(text string) Message {
	return Message{Sender: SenderBot, Text: text}
}

// Fixed texts shown by the widget.
const (
	GreetingText = "Добрый день! Я помогу подобрать курс.\n\n" +
		"🟡 Напишите, пожалуйста:\n" +
		"– Кем вы работаете (учитель, воспитатель, логопед и т.д.)\n" +
		"– И по какой теме хотите пройти курс (например, ФГОС, ОВЗ, ИКТ, воспитательная работа...)\n\n" +
		"Я сразу подберу подходящие программы 📋"
	AcknowledgementText = "Спасибо! Я обрабатываю ваш запрос."
	ConnectionErrorText = "Ошибка соединения с сервером."
)

// IsBlank reports whether input carries nothing worth sending.
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
