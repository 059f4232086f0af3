// Package cache implementa el almacén de claves de idempotencia: Redis para despliegues
// con varias instancias y memoria para desarrollo y tests.
package cache

// pendingValue valor de una clave reservada cuya operación aún no termina.
const pendingValue = "__pending__"
