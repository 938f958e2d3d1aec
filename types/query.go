package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// Message is one turn of the conversation. History is carried by the
// client on every request, nothing is kept server-side.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatParams struct {
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *ChatParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// LastUserMessage returns the content of the final user turn, which is
// the text the retrieval step embeds.
func (params *ChatParams) LastUserMessage() string {
	for i := len(params.Messages) - 1; i >= 0; i-- {
		if params.Messages[i].Role == "user" {
			return params.Messages[i].Content
		}
	}
	return ""
}
