package repository

import (
	"strings"
	"testing"
)

func TestListUsersByRoleQueryFiltersOnRole(t *testing.T) {
	query := strings.ToLower(listUsersByRoleQuery)

	requiredFragments := []string{
		"from user_roles ur",
		"join users u on u.id = ur.user_id",
		"where ur.role = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected role-filtered query fragment %q to be present", fragment)
		}
	}
}

func TestListUsersQueryKeepsUsersWithoutRoles(t *testing.T) {
	query := strings.ToLower(listUsersQuery)

	if !strings.Contains(query, "left join user_roles") {
		t.Fatal("global list users query should keep users without any role")
	}
	if strings.Contains(query, "where ur.role = $1") {
		t.Fatal("global list users query should not filter on a role")
	}
}
