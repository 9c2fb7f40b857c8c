package repo

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	dom "tasklist/internal/domain"
)

var (
	userHeader = []string{"username", "password", "tasks"}
	taskHeader = []string{"task", "deadline", "user"}
)

// EnsureCSVTables creates header-only table files for any that do not exist yet.
// Existing files are left untouched.
func EnsureCSVTables(usersPath, tasksPath string) error {
	if err := ensureTable(usersPath, userHeader); err != nil {
		return err
	}
	return ensureTable(tasksPath, taskHeader)
}

func ensureTable(path string, header []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeRows(f, [][]string{header}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	return f.Close()
}

// CSVUserRepo stores users in a delimited text file with the header
// username,password,tasks. Every call scans the whole file; AppendTask
// rewrites it.
type CSVUserRepo struct {
	path string
	mu   sync.Mutex
}

// NewCSVUserRepo returns a repo over the file at path. The file must already exist.
func NewCSVUserRepo(path string) *CSVUserRepo {
	return &CSVUserRepo{path: path}
}

// GetByUsername returns the first row whose username matches.
func (r *CSVUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	if err := ctx.Err(); err != nil {
		return dom.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return dom.User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, ErrNotFound
}

// Create appends a row for u unless the username is already present.
func (r *CSVUserRepo) Create(ctx context.Context, u dom.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}

	f, err := openForAppend(r.path)
	if err != nil {
		return err
	}
	if err := writeRows(f, [][]string{userRow(u)}); err != nil {
		_ = f.Close()
		return fmt.Errorf("append user: %w", err)
	}
	return f.Close()
}

// AppendTask adds entry to the user's list and rewrites the whole table.
func (r *CSVUserRepo) AppendTask(ctx context.Context, username, entry string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.readAll()
	if err != nil {
		return err
	}
	found := false
	for i := range users {
		if users[i].Username == username {
			users[i].Tasks = append(users[i].Tasks, entry)
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	rows := make([][]string, 0, len(users)+1)
	rows = append(rows, userHeader)
	for _, u := range users {
		rows = append(rows, userRow(u))
	}
	return replaceFile(r.path, rows)
}

// Ping reports whether the table file is still present.
func (r *CSVUserRepo) Ping(ctx context.Context) error {
	return statTable(r.path)
}

func (r *CSVUserRepo) readAll() ([]dom.User, error) {
	records, err := readTable(r.path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	idx, err := columnIndex(records[0], userHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	users := make([]dom.User, 0, len(records)-1)
	for _, rec := range records[1:] {
		users = append(users, dom.User{
			Username:     cell(rec, idx[0]),
			PasswordHash: cell(rec, idx[1]),
			Tasks:        dom.SplitEntries(cell(rec, idx[2])),
		})
	}
	return users, nil
}

func userRow(u dom.User) []string {
	return []string{u.Username, u.PasswordHash, dom.JoinEntries(u.Tasks)}
}

// CSVTaskRepo appends task rows to a delimited text file with the header task,deadline,user.
type CSVTaskRepo struct {
	path string
	mu   sync.Mutex
}

// NewCSVTaskRepo returns a repo over the file at path. The file must already exist.
func NewCSVTaskRepo(path string) *CSVTaskRepo {
	return &CSVTaskRepo{path: path}
}

func (r *CSVTaskRepo) Append(ctx context.Context, t dom.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := openForAppend(r.path)
	if err != nil {
		return err
	}
	if err := writeRows(f, [][]string{{t.Description, t.Deadline, t.Owner}}); err != nil {
		_ = f.Close()
		return fmt.Errorf("append task: %w", err)
	}
	return f.Close()
}

// Ping reports whether the table file is still present.
func (r *CSVTaskRepo) Ping(ctx context.Context) error {
	return statTable(r.path)
}

func readTable(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tableOpenError(path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps want names to their positions in header.
func columnIndex(header, want []string) ([]int, error) {
	idx := make([]int, len(want))
	for i, name := range want {
		idx[i] = -1
		for j, h := range header {
			if h == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func openForAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, tableOpenError(path, err)
	}
	return f, nil
}

// replaceFile writes rows to a sibling temp file and renames it over path.
func replaceFile(path string, rows [][]string) error {
	if err := statTable(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := writeRows(tmp, rows); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	return nil
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func statTable(path string) error {
	if _, err := os.Stat(path); err != nil {
		return tableOpenError(path, err)
	}
	return nil
}

func tableOpenError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("open %s: %w", path, ErrTableMissing)
	}
	return fmt.Errorf("open %s: %w", path, err)
}
