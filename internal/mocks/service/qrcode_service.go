package service

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock and asserts its expectations on cleanup.
func NewMockQRCodeService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GenerateDepositQR(playerID uuid.UUID) ([]byte, error) {
	args := m.Called(playerID)

	var png []byte
	if v := args.Get(0); v != nil {
		png = v.([]byte)
	}

	return png, args.Error(1)
}

func (m *MockQRCodeService) DepositURI(playerID uuid.UUID) string {
	return m.Called(playerID).String(0)
}

func (m *MockQRCodeService) ParseDepositURI(uri string) (uuid.UUID, error) {
	args := m.Called(uri)

	return args.Get(0).(uuid.UUID), args.Error(1)
}
