package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []employee.Employee {
	return []employee.Employee{
		{EmployeeID: "DD001", EmployeeName: "Asha Rao", Email: "asha@ddhealthcare.in", DepartmentID: "10", Role: employee.RoleManager},
		{EmployeeID: "DD002", EmployeeName: "Ravi Kumar", Email: "ravi@ddhealthcare.in", DepartmentID: "20", Role: employee.RoleEmployee},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers(), rows[0])
	assert.Equal(t, "DD001", rows[1][0])
	assert.Equal(t, "Ravi Kumar", rows[2][1])
	assert.Equal(t, "Manager", rows[1][5])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sample(), time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Len(t, []rune(truncate("a very long designation that overflows", 22)), 13)
}
