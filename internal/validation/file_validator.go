package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InputExtensions lists the file types the loader understands
var InputExtensions = []string{".csv", ".txt", ".tsv", ".xlsx"}

// ErrSamePath is returned when a run would overwrite its own input
var ErrSamePath = errors.New("input and output refer to the same file")

// ProcessRequest is one processor invocation as parsed from the command line
type ProcessRequest struct {
	Input      string `validate:"required"`
	Output     string `validate:"required"`
	Format     string `validate:"omitempty,oneof=json csv xlsx parquet"`
	Encoding   string `validate:"omitempty,oneof=utf-8 utf8 windows-874 tis-620 cp874"`
	Measure    string `validate:"omitempty,oneof=total revenue quantity qty"`
	Variant    string `validate:"omitempty,oneof=revenue weekly-quantity"`
	WindowDays int    `validate:"gte=-1"`
}

// FileValidator checks processor inputs and outputs before a run
type FileValidator struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		validate: validator.New(),
	}
}

// ValidateRequest checks flag values, the input file and the output location
func (v *FileValidator) ValidateRequest(req ProcessRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s %q (%s)", strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}

	if err := v.ValidateInputFile(req.Input); err != nil {
		return err
	}
	if err := v.ValidateOutputPath(req.Output); err != nil {
		return err
	}

	in, _ := filepath.Abs(req.Input)
	out, _ := filepath.Abs(req.Output)
	if in == out {
		return fmt.Errorf("%w: %s", ErrSamePath, req.Input)
	}
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputFile checks that path is a readable sales export
func (v *FileValidator) ValidateInputFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range InputExtensions {
		if ext == allowed {
			return nil
		}
	}

	v.logger.Error("Unsupported input file type",
		slog.String("file", path),
		slog.String("extension", ext))
	return fmt.Errorf("file %s has unsupported extension %q (want one of %s)", path, ext, strings.Join(InputExtensions, ", "))
}

// ValidateOutputPath ensures the output's directory exists or can be created
// and is writable, and that the output itself is not a directory.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output %s is a directory", path)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
