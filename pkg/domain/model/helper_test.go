package model_test

import "github.com/edopt/chatbot/pkg/domain/types"

func gradePtr(n int) *types.Grade {
	g := types.Grade(n)
	return &g
}
