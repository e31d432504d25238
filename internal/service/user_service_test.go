package service

import (
	"errors"
	"testing"

	"github.com/foliolog/internal/db"
)

func TestUserServiceCreateAndAuthenticate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Create(UserInput{Username: "jane", Password: "s3cret", Role: "admin"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Role != db.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
	if user.Password == "s3cret" {
		t.Fatalf("password stored in clear text")
	}

	if _, err := svc.Authenticate("jane", "s3cret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := svc.Authenticate("jane", "wrong"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "s3cret"); !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin for unknown user, got %v", err)
	}
}

func TestUserServiceDuplicateUsername(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	if _, err := svc.Create(UserInput{Username: "jane", Password: "pw"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := svc.Create(UserInput{Username: "jane", Password: "pw2"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUserServiceProtectsLastAdmin(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	admin, err := svc.Create(UserInput{Username: "root", Password: "pw", Role: "admin"})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	if err := svc.Delete(admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin on delete, got %v", err)
	}
	if _, err := svc.Update(admin.ID, UserInput{Username: "root", Role: "editor"}); !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin on demotion, got %v", err)
	}

	// 出现第二名管理员后即可删除
	if _, err := svc.Create(UserInput{Username: "backup", Password: "pw", Role: "admin"}); err != nil {
		t.Fatalf("create second admin: %v", err)
	}
	if err := svc.Delete(admin.ID); err != nil {
		t.Fatalf("delete admin with backup present: %v", err)
	}
}

func TestUserServiceUpdateKeepsPasswordWhenBlank(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Create(UserInput{Username: "jane", Password: "original", Role: "admin"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.Update(user.ID, UserInput{Username: "jane", Email: "jane@example.dev", Role: "admin"}); err != nil {
		t.Fatalf("update user: %v", err)
	}

	if _, err := svc.Authenticate("jane", "original"); err != nil {
		t.Fatalf("expected original password to survive blank update: %v", err)
	}
}
