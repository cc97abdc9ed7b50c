// internal/core/ports/store.go
package ports

import "finsight/internal/core/domain"

// RevenueStore mantiene los contadores rolling de rendimiento por red
// publicitaria. Es un store inyectado y no un singleton de paquete, de
// forma que cada test puede usar una instancia aislada. Los contadores
// viven lo que vive el proceso; peticiones concurrentes compiten sobre
// ellos y el diseño tolera lecturas ligeramente desfasadas, pero los
// incrementos deben ser atómicos para que requests/successes nunca
// diverjan en un ratio inconsistente.
type RevenueStore interface {
	// Record registra un intento sobre la red: todo intento incrementa
	// requests; un éxito incrementa successes y suma revenue.
	Record(network string, success bool, revenue float64)

	// Snapshot retorna una copia consistente de los contadores de la red.
	Snapshot(network string) domain.NetworkMetrics

	// All retorna un snapshot de todas las redes registradas.
	All() map[string]domain.NetworkMetrics
}
