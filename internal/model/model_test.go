package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanTypeDuration(t *testing.T) {
	assert.Equal(t, 10*24*time.Hour, LoanTypeTenDays.Duration())
	assert.Equal(t, 5*24*time.Hour, LoanTypeFiveDays.Duration())
	assert.Equal(t, 2*24*time.Hour, LoanTypeTwoDays.Duration())

	assert.True(t, LoanTypeTenDays.Valid())
	assert.False(t, LoanType("THREE_WEEKS").Valid())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, CityHaifa.Valid())
	assert.False(t, City("GOTHAM").Valid())

	assert.True(t, CategoryMystery.Valid())
	assert.False(t, Category("COOKBOOK").Valid())

	assert.True(t, RoleClerk.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestStatusFilterValidFor(t *testing.T) {
	tests := []struct {
		status StatusFilter
		loans  bool
		want   bool
	}{
		{StatusActive, false, true},
		{StatusInactive, false, true},
		{StatusAll, false, true},
		{StatusLate, false, false}, // late 仅对借阅列表合法
		{StatusLate, true, true},
		{StatusFilter("bogus"), true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.ValidFor(tt.loans),
			"status=%s loans=%t", tt.status, tt.loans)
	}
}

func TestLoanLate(t *testing.T) {
	now := time.Now().UTC()

	// 未归还且应还时间已过
	late := &Loan{IsActive: true, ReturnDate: now.Add(-time.Hour)}
	assert.True(t, late.Late(now))

	// 未归还但还没到期
	onTime := &Loan{IsActive: true, ReturnDate: now.Add(time.Hour)}
	assert.False(t, onTime.Late(now))

	// 已归还的借阅永远不算逾期
	returned := &Loan{IsActive: false, ReturnDate: now.Add(-time.Hour)}
	assert.False(t, returned.Late(now))
}
