package main

import (
	"github.com/voicescreen/interviewd/core/server"
	"github.com/voicescreen/interviewd/core/token"
	"github.com/voicescreen/interviewd/integration/database/pg"
	"github.com/voicescreen/interviewd/integration/database/redis"
)

type appConfig struct {
	AppName string `env:"APP_NAME" envDefault:"interviewd"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	OpenAIKey string `env:"OPENAI_API_KEY,required"`
	GeminiKey string `env:"GEMINI_API_KEY"`

	SystemPrompt string `env:"INTERVIEW_SYSTEM_PROMPT" envDefault:"You are a seasoned software engineering interviewer running a spoken mock interview. Keep replies short and conversational. When you present a coding exercise, introduce it with the word Problem followed by its statement and terminate the statement with --. When you reveal reference code, introduce it with the word Solution and terminate it the same way."`

	Server server.Config
	Token  token.Config
	Redis  redis.Config
	PG     pg.Config
}
