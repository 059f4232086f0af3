package entity

// Roles que entrega el colaborador de autorización en el token.
// El núcleo no valida identidad; solo usa el rol para restringir rutas mutables.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)
