package authz

// Роли админ-аккаунтов (таблица admin_accounts, не users)
const (
	RoleModerator  = "moderator"
	RoleSupport    = "support"
	RoleSuperadmin = "superadmin"
)

func CanModerate(role string) bool {
	return role == RoleModerator || role == RoleSuperadmin
}

// CanManageMoney — выплаты подтверждает только суперадмин
func CanManageMoney(role string) bool {
	return role == RoleSuperadmin
}
