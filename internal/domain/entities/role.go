package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// Permission representa uma permissão específica
type Permission string

const (
	PermissionStudentRead   Permission = "students.read"
	PermissionStudentWrite  Permission = "students.write"
	PermissionStudentDelete Permission = "students.delete"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionStudentRead,
		PermissionStudentWrite,
		PermissionStudentDelete,
	},
	// Alunos não acessam o back office
	RoleStudent: {},
}

// IsValid verifica se o role é conhecido
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// GetPermissions retorna permissões de um role
func (r Role) GetPermissions() []Permission {
	return RolePermissions[r]
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	permissions := RolePermissions[r]
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
