package services

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sales data errors
var (
	// ErrNoSalesData means the processor has not produced a result file yet
	ErrNoSalesData = fmt.Errorf("no processed sales data: %w", fs.ErrNotExist)

	// ErrCorruptSalesData means the result file exists but is not a row array
	ErrCorruptSalesData = errors.New("processed sales data is corrupted")
)
