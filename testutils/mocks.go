package testutils

import (
	"github.com/stretchr/testify/mock"
)

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	args := m.Called(templateName, to, subject, data)
	return args.Error(0)
}

func (m *MockMailSender) SendPlain(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
