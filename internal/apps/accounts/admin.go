package accounts

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
)

func (p *Plugin) RegisterAdmin(site *admin.Site) {
	admin.Register(site, p.users.Users(), userAdmin())
	admin.Register(site, p.users.Groups(), groupAdmin())
}

func userAdmin() admin.Options[models.User] {
	fieldsets := []admin.Fieldset{
		{Name: "Login Info", Fields: []string{"email", "password"}},
		{Name: "Personal Info", Fields: []string{"first_name", "last_name", "username", "company_name", "role"}},
		{Name: "Permissions", Fields: []string{"is_active", "is_staff", "is_superuser", "group_ids", "permissions"}},
		{Name: "Important dates", Fields: []string{"last_login", "date_joined"}},
	}
	return admin.Options[models.User]{
		App:               "accounts",
		Model:             "user",
		VerboseName:       "user",
		VerboseNamePlural: "users",
		Columns: []admin.Column[models.User]{
			{Name: "email", Label: "Email", Order: "users.email",
				Value: func(u *models.User) interface{} { return u.Email }},
			{Name: "first_name", Label: "First name", Order: "users.first_name",
				Value: func(u *models.User) interface{} { return u.FirstName }},
			{Name: "last_name", Label: "Last name", Order: "users.last_name",
				Value: func(u *models.User) interface{} { return u.LastName }},
			{Name: "company_name", Label: "Company name", Order: "users.company_name",
				Value: func(u *models.User) interface{} { return u.CompanyName }},
			{Name: "role", Label: "Role", Order: "users.role",
				Value: func(u *models.User) interface{} { return u.Role.Label() }},
			{Name: "is_staff", Label: "Staff status", Order: "users.is_staff",
				Value: func(u *models.User) interface{} { return u.Staff }},
			{Name: "is_active", Label: "Active", Order: "users.is_active",
				Value: func(u *models.User) interface{} { return u.Active }},
		},
		Search: []string{"users.email", "users.company_name", "users.role"},
		Filters: []admin.Filter{
			{Param: "is_staff", Column: "users.is_staff", Label: "Staff status", Kind: admin.FilterBool},
			{Param: "is_superuser", Column: "users.is_superuser", Label: "Superuser status", Kind: admin.FilterBool},
			{Param: "is_active", Column: "users.is_active", Label: "Active", Kind: admin.FilterBool},
			{Param: "role", Column: "users.role", Label: "Role", Kind: admin.FilterChoice, Choices: models.UserRoles.Options()},
		},
		Ordering:     []string{"users.email"},
		Fieldsets:    fieldsets,
		AddFieldsets: fieldsets,
		Readonly:     []string{"groups", "last_login", "date_joined"},
	}
}

func groupAdmin() admin.Options[models.Group] {
	return admin.Options[models.Group]{
		App:               "accounts",
		Model:             "group",
		VerboseName:       "group",
		VerboseNamePlural: "groups",
		Columns: []admin.Column[models.Group]{
			{Name: "name", Label: "Name", Order: "groups.name",
				Value: func(g *models.Group) interface{} { return g.Name }},
			{Name: "permissions", Label: "Permissions",
				Value: func(g *models.Group) interface{} { return len(g.Permissions) }},
		},
		Search:   []string{"groups.name"},
		Ordering: []string{"groups.name"},
		Fieldsets: []admin.Fieldset{
			{Fields: []string{"name", "permissions"}},
		},
	}
}
