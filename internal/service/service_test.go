package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	dom "tasklist/internal/domain"
	"tasklist/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

func newServices(t *testing.T) (*UserService, *TaskService, *repo.MemoryUserRepo, *repo.MemoryTaskRepo) {
	t.Helper()
	users, tasks := repo.NewMemoryUserRepo(), repo.NewMemoryTaskRepo()
	locks := NewKeyedMutex()
	return NewUserService(users, bcrypt.MinCost, locks, nil),
		NewTaskService(users, tasks, nil, locks, nil),
		users, tasks
}

func TestCreateUserTwice(t *testing.T) {
	ctx := context.Background()
	userSvc, _, users, _ := newServices(t)

	if err := userSvc.CreateUser(ctx, "alice", "secret"); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	first, err := users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := userSvc.CreateUser(ctx, "alice", "other"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("second CreateUser: got %v, want ErrUserExists", err)
	}
	again, err := users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if again.PasswordHash != first.PasswordHash {
		t.Fatal("duplicate create replaced the stored hash")
	}
	if !CheckPassword(first.PasswordHash, "secret") {
		t.Fatal("stored hash does not verify against the original password")
	}
	if first.PasswordHash == "secret" {
		t.Fatal("password stored in clear text")
	}
}

func TestCreateUserAcceptsEmptyFields(t *testing.T) {
	userSvc, taskSvc, _, _ := newServices(t)
	ctx := context.Background()
	if err := userSvc.CreateUser(ctx, "", ""); err != nil {
		t.Fatalf("CreateUser empty: %v", err)
	}
	list, err := taskSvc.GetTasks(ctx, "")
	if err != nil || len(list) != 0 {
		t.Fatalf("GetTasks empty user = %v, %v", list, err)
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Fatal("same password produced identical hashes")
	}
	for _, h := range []string{h1, h2} {
		if !CheckPassword(h, "hunter2") {
			t.Fatalf("hash %q does not verify", h)
		}
		if CheckPassword(h, "hunter3") {
			t.Fatalf("hash %q verifies a wrong password", h)
		}
	}
	cost, err := bcrypt.Cost([]byte(h1))
	if err != nil || cost != bcrypt.MinCost {
		t.Fatalf("cost = %d, %v", cost, err)
	}
}

func TestHashPasswordLongInput(t *testing.T) {
	long := strings.Repeat("p", 100)
	h, err := HashPassword(long, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(h, long) {
		t.Fatal("long password does not verify")
	}
}

func TestCreateTaskUnknownUser(t *testing.T) {
	_, taskSvc, _, tasks := newServices(t)
	err := taskSvc.CreateTask(context.Background(), "Write report", "2024-05-01", "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
	if n := len(tasks.All()); n != 0 {
		t.Fatalf("task log has %d rows, want 0", n)
	}
}

func TestCreateTaskAndList(t *testing.T) {
	ctx := context.Background()
	userSvc, taskSvc, _, tasks := newServices(t)
	if err := userSvc.CreateUser(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := userSvc.CreateUser(ctx, "bob", "pw"); err != nil {
		t.Fatal(err)
	}

	list, err := taskSvc.GetTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("fresh user tasks = %#v, want empty non-nil", list)
	}

	if err := taskSvc.CreateTask(ctx, "Write report", "2024-05-01", "alice"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := taskSvc.CreateTask(ctx, "Ship", "Friday", "alice"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	list, err = taskSvc.GetTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("GetTasks: %v", err)
	}
	if len(list) != 2 || list[1] != "Ship (Deadline: Friday)" {
		t.Fatalf("alice tasks = %#v", list)
	}
	if bobs, _ := taskSvc.GetTasks(ctx, "bob"); len(bobs) != 0 {
		t.Fatalf("bob tasks = %#v", bobs)
	}

	log := tasks.All()
	if len(log) != 2 {
		t.Fatalf("task log rows = %d, want 2", len(log))
	}
	if log[0] != (dom.Task{Description: "Write report", Deadline: "2024-05-01", Owner: "alice"}) {
		t.Fatalf("task log row = %+v", log[0])
	}
}

func TestGetTasksUnknownUser(t *testing.T) {
	_, taskSvc, _, _ := newServices(t)
	if _, err := taskSvc.GetTasks(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestMissingTablesPropagate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	usersPath, tasksPath := filepath.Join(dir, "users.csv"), filepath.Join(dir, "tasks.csv")
	if err := repo.EnsureCSVTables(usersPath, tasksPath); err != nil {
		t.Fatal(err)
	}
	users, tasks := repo.NewCSVUserRepo(usersPath), repo.NewCSVTaskRepo(tasksPath)
	userSvc := NewUserService(users, bcrypt.MinCost, nil, nil)
	taskSvc := NewTaskService(users, tasks, nil, nil, nil)

	if err := userSvc.CreateUser(ctx, "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(tasksPath); err != nil {
		t.Fatal(err)
	}
	if err := taskSvc.CreateTask(ctx, "x", "y", "alice"); !errors.Is(err, repo.ErrTableMissing) {
		t.Fatalf("CreateTask with missing task table: got %v", err)
	}
	// the user table update is not rolled back
	list, err := taskSvc.GetTasks(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("GetTasks = %#v, %v", list, err)
	}

	if err := os.Remove(usersPath); err != nil {
		t.Fatal(err)
	}
	if err := userSvc.CreateUser(ctx, "bob", "pw"); !errors.Is(err, repo.ErrTableMissing) {
		t.Fatalf("CreateUser with missing user table: got %v", err)
	}
	if _, err := taskSvc.GetTasks(ctx, "alice"); !errors.Is(err, repo.ErrTableMissing) {
		t.Fatalf("GetTasks with missing user table: got %v", err)
	}
}

// racyUserRepo is a read-modify-write store with no locking around AppendTask.
type racyUserRepo struct {
	mu    sync.Mutex // guards the map, not the read-modify-write
	users map[string]dom.User
}

func (r *racyUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	u.Tasks = append([]string{}, u.Tasks...)
	return u, nil
}

func (r *racyUserRepo) Create(ctx context.Context, u dom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Username] = u
	return nil
}

func (r *racyUserRepo) AppendTask(ctx context.Context, username, entry string) error {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	u.Tasks = append(u.Tasks, entry)
	return r.Create(ctx, u)
}

func TestCreateTaskSerializesPerUser(t *testing.T) {
	ctx := context.Background()
	users := &racyUserRepo{users: make(map[string]dom.User)}
	taskSvc := NewTaskService(users, repo.NewMemoryTaskRepo(), nil, NewKeyedMutex(), nil)
	if err := users.Create(ctx, dom.User{Username: "alice", PasswordHash: "h"}); err != nil {
		t.Fatal(err)
	}

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := taskSvc.CreateTask(ctx, fmt.Sprintf("task %d", i), "d", "alice"); err != nil {
				t.Errorf("CreateTask: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, err := taskSvc.GetTasks(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != n {
		t.Fatalf("got %d tasks, want %d", len(list), n)
	}
}

func TestKeyedMutex(t *testing.T) {
	k := NewKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")

	acquired := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock(a) acquired while a is held")
	case <-time.After(20 * time.Millisecond):
	}
	unlockB()
	unlockA()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Lock(a) never acquired after unlock")
	}

	deadline := time.Now().Add(time.Second)
	for k.size() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("keyed mutex retained %d keys", k.size())
		}
		time.Sleep(time.Millisecond)
	}
}
