package heap

// Hand-maintained in the shape go.uber.org/mock/mockgen would generate
// for Mapper (source: mapper.go), since the toolchain isn't run as
// part of building this module.

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockMapper is a mock of the Mapper interface.
type MockMapper struct {
	ctrl     *gomock.Controller
	recorder *MockMapperMockRecorder
}

// MockMapperMockRecorder is the mock recorder for MockMapper.
type MockMapperMockRecorder struct {
	mock *MockMapper
}

// NewMockMapper creates a new mock instance.
func NewMockMapper(ctrl *gomock.Controller) *MockMapper {
	mock := &MockMapper{ctrl: ctrl}
	mock.recorder = &MockMapperMockRecorder{mock}

	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMapper) EXPECT() *MockMapperMockRecorder {
	return m.recorder
}

// Reserve mocks base method.
func (m *MockMapper) Reserve(size uintptr) ([]byte, error) {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "Reserve", size)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

// Reserve indicates an expected call of Reserve.
func (mr *MockMapperMockRecorder) Reserve(size any) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reserve",
		reflect.TypeOf((*MockMapper)(nil).Reserve), size)
}
