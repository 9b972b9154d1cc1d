package employee

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeCasual      LeaveType = "casual"
	LeaveTypeMedical     LeaveType = "medical"
	LeaveTypeEarned      LeaveType = "earned"
	LeaveTypePaternity   LeaveType = "paternity"
	LeaveTypeMaternity   LeaveType = "maternity"
	LeaveTypeCompOff     LeaveType = "comp_off"
	LeaveTypeOptional    LeaveType = "optional"
	LeaveTypeBereavement LeaveType = "bereavement"
	LeaveTypeUnpaid      LeaveType = "unpaid"
)

// LeaveTypes lists every counter in the order they are presented.
var LeaveTypes = []LeaveType{
	LeaveTypeCasual,
	LeaveTypeMedical,
	LeaveTypeEarned,
	LeaveTypePaternity,
	LeaveTypeMaternity,
	LeaveTypeCompOff,
	LeaveTypeOptional,
	LeaveTypeBereavement,
	LeaveTypeUnpaid,
}

const (
	defaultLeaveDays       = "0"
	defaultBereavementDays = "5"
)

type LeaveOperation string

const (
	LeaveOperationAdd      LeaveOperation = "add"
	LeaveOperationSubtract LeaveOperation = "subtract"
)

// LeaveBalance keeps each counter as a numeric string, e.g. "12" or "1.5".
type LeaveBalance struct {
	Casual      string `json:"casual"`
	Medical     string `json:"medical"`
	Earned      string `json:"earned"`
	Paternity   string `json:"paternity"`
	Maternity   string `json:"maternity"`
	CompOff     string `json:"comp_off"`
	Optional    string `json:"optional"`
	Bereavement string `json:"bereavement"`
	Unpaid      string `json:"unpaid"`
}

func DefaultLeaveBalance() LeaveBalance {
	return LeaveBalance{}.WithDefaults()
}

// WithDefaults returns a copy where empty counters carry their default value.
func (b LeaveBalance) WithDefaults() LeaveBalance {
	for _, lt := range LeaveTypes {
		p := b.field(lt)
		if *p != "" {
			continue
		}
		if lt == LeaveTypeBereavement {
			*p = defaultBereavementDays
		} else {
			*p = defaultLeaveDays
		}
	}
	return b
}

func (b LeaveBalance) Get(lt LeaveType) (string, error) {
	if !lt.IsValid() {
		return "", ErrInvalidLeaveType
	}
	return *b.field(lt), nil
}

// Adjust applies days to one counter. Subtraction never goes below zero.
func (b LeaveBalance) Adjust(lt LeaveType, days decimal.Decimal, op LeaveOperation) (LeaveBalance, error) {
	if !lt.IsValid() {
		return b, ErrInvalidLeaveType
	}
	if !days.IsPositive() {
		return b, ErrInvalidLeaveDays
	}

	b = b.WithDefaults()
	p := b.field(lt)

	current, err := decimal.NewFromString(*p)
	if err != nil {
		return b, fmt.Errorf("corrupt %s leave balance %q: %w", lt, *p, err)
	}

	switch op {
	case LeaveOperationAdd:
		current = current.Add(days)
	case LeaveOperationSubtract:
		current = decimal.Max(current.Sub(days), decimal.Zero)
	default:
		return b, ErrInvalidLeaveOperation
	}

	*p = current.String()
	return b, nil
}

func (b *LeaveBalance) field(lt LeaveType) *string {
	switch lt {
	case LeaveTypeCasual:
		return &b.Casual
	case LeaveTypeMedical:
		return &b.Medical
	case LeaveTypeEarned:
		return &b.Earned
	case LeaveTypePaternity:
		return &b.Paternity
	case LeaveTypeMaternity:
		return &b.Maternity
	case LeaveTypeCompOff:
		return &b.CompOff
	case LeaveTypeOptional:
		return &b.Optional
	case LeaveTypeBereavement:
		return &b.Bereavement
	case LeaveTypeUnpaid:
		return &b.Unpaid
	}
	return nil
}

func (lt LeaveType) IsValid() bool {
	for _, t := range LeaveTypes {
		if t == lt {
			return true
		}
	}
	return false
}
