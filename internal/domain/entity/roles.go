package entity

// Roles válidos en el token (el middleware RBAC decide sin consultar la DB).
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)
