package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
)

func TestCreateUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, &CreateUserInput{Name: " Ruwan ", Email: "Ruwan@Example.com"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.Role != enum.RoleStaff || u.Email != "ruwan@example.com" || u.Password != "" {
		t.Errorf("user = %+v", u)
	}

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "Dup", Email: "ruwan@example.com"})
	assertCode(t, err, http.StatusConflict)

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "X", Email: "bad", Role: "owner"})
	assertField(t, err, "email")
	assertField(t, err, "role")
}

func TestUpdateUserKeepsAnAdmin(t *testing.T) {
	only := entity.User{ID: uuid.New(), Name: "Admin", Email: "a@example.com", Role: enum.RoleAdmin, Active: true}
	staff := entity.User{ID: uuid.New(), Name: "Staff", Email: "s@example.com", Role: enum.RoleStaff, Active: true}
	repo := newFakeUserRepo(only, staff)
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, &UpdateUserInput{ActorID: only.ID, UserID: only.ID, Role: ptr(enum.RoleStaff)})
	assertCode(t, err, http.StatusBadRequest)

	_, err = svc.UpdateUser(ctx, &UpdateUserInput{ActorID: staff.ID, UserID: only.ID, Active: ptr(false)})
	assertCode(t, err, http.StatusConflict)

	promoted, err := svc.UpdateUser(ctx, &UpdateUserInput{ActorID: only.ID, UserID: staff.ID, Role: ptr(enum.RoleAdmin)})
	if err != nil || promoted.Role != enum.RoleAdmin {
		t.Fatalf("promote = %+v, %v", promoted, err)
	}

	demoted, err := svc.UpdateUser(ctx, &UpdateUserInput{ActorID: staff.ID, UserID: only.ID, Role: ptr(enum.RoleStaff)})
	if err != nil || demoted.Role != enum.RoleStaff {
		t.Fatalf("demote with another admin = %+v, %v", demoted, err)
	}
}

func TestDeleteUser(t *testing.T) {
	admin := entity.User{ID: uuid.New(), Name: "Admin", Email: "a@example.com", Role: enum.RoleAdmin, Active: true}
	other := entity.User{ID: uuid.New(), Name: "Admin 2", Email: "b@example.com", Role: enum.RoleAdmin, Active: true}
	repo := newFakeUserRepo(admin, other)
	svc := NewUserService(repo)
	ctx := context.Background()

	assertCode(t, svc.DeleteUser(ctx, admin.ID, admin.ID), http.StatusBadRequest)

	if err := svc.DeleteUser(ctx, admin.ID, other.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	assertCode(t, svc.DeleteUser(ctx, admin.ID, other.ID), http.StatusNotFound)

	staff := entity.User{ID: uuid.New(), Name: "Staff", Email: "s@example.com", Role: enum.RoleStaff, Active: true}
	repo.users[staff.ID] = staff
	repo.users[other.ID] = other
	repo.users[admin.ID] = admin
	if err := svc.DeleteUser(ctx, staff.ID, other.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	assertCode(t, svc.DeleteUser(ctx, staff.ID, admin.ID), http.StatusConflict)
}
