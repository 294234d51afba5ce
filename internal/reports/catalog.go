// Package reports is the catalog of canned SQL shipped with perruls: the
// quick actions of the interactive client and the statements behind the
// REST endpoints. Parameters are always positional ($1) and bound by the
// driver.
package reports

// Report is a fixed statement with a display title.
type Report struct {
	Key    string
	Title  string
	SQL    string
	Params int
}

// Quick actions offered by the interactive client.
var (
	VaccinatedAtIsabelBongard = Report{
		Key:   "vacunadas-isabel-bongard",
		Title: "Mascotas vacunadas en Isabel Bongard",
		SQL: `SELECT mascota.chip_id, mascota.nombre_mascota, mascota.raza, sucursal.nombre_campus,
       vacuna.nombre_vacuna, vacuna.fecha_aplicacion
FROM sucursal
JOIN mascota ON sucursal.nombre_campus = mascota.nombre_campus
JOIN vacuna ON mascota.chip_id = vacuna.chip_id
WHERE sucursal.nombre_campus = 'Isabel Bongard'
ORDER BY vacuna.fecha_aplicacion DESC`,
	}

	MedicinesByCampus = Report{
		Key:   "medicamentos-por-campus",
		Title: "Medicamentos por campus",
		SQL: `SELECT sucursal.nombre_campus, inventario.nombre AS medicamento, inventario.cantidad, medicamento.gramaje
FROM inventario
JOIN sucursal ON inventario.nombre_campus = sucursal.nombre_campus
JOIN medicamento ON inventario.id_item = medicamento.id_item
ORDER BY sucursal.nombre_campus, inventario.nombre`,
	}

	FoodAndPetsByCampus = Report{
		Key:   "comida-y-mascotas",
		Title: "Comida y mascotas por campus",
		SQL: `SELECT sucursal.nombre_campus,
       COUNT(mascota.chip_id) AS total_mascotas,
       COALESCE((
           SELECT SUM(cantidad)
           FROM inventario
           WHERE inventario.nombre_campus = sucursal.nombre_campus
             AND inventario.tipo = 'Comida'
       ), 0) AS stock_total_alimento
FROM sucursal
LEFT JOIN mascota ON mascota.nombre_campus = sucursal.nombre_campus
GROUP BY sucursal.nombre_campus
ORDER BY stock_total_alimento DESC`,
	}

	CriticalFoodStock = Report{
		Key:   "stock-critico",
		Title: "Alimentos con stock crítico relativo",
		SQL: `SELECT sucursal.nombre_campus, inventario.nombre AS comida, inventario.cantidad,
       COUNT(mascota.chip_id) AS cantidad_mascotas,
       inventario.cantidad / NULLIF(COUNT(mascota.chip_id), 0) AS kg_por_mascota
FROM inventario
JOIN sucursal ON inventario.nombre_campus = sucursal.nombre_campus
LEFT JOIN mascota ON mascota.nombre_campus = sucursal.nombre_campus
WHERE inventario.tipo = 'Comida'
GROUP BY sucursal.nombre_campus, inventario.nombre, inventario.cantidad
HAVING inventario.cantidad / NULLIF(COUNT(mascota.chip_id), 0) < 10
ORDER BY kg_por_mascota ASC`,
	}

	ReferredPets = Report{
		Key:   "mascotas-derivadas",
		Title: "Mascotas derivadas",
		SQL: `SELECT derivacion.id_derivacion, derivacion.fecha, derivacion.motivo, derivacion.ubicacion_vet,
       mascota.chip_id, mascota.nombre_mascota, sucursal.nombre_campus
FROM derivacion
JOIN mascota ON derivacion.chip_id = mascota.chip_id
JOIN sucursal ON mascota.nombre_campus = sucursal.nombre_campus
ORDER BY derivacion.fecha DESC`,
	}
)

// QuickActions lists the reports shown in the client, in display order.
var QuickActions = []Report{
	VaccinatedAtIsabelBongard,
	MedicinesByCampus,
	FoodAndPetsByCampus,
	CriticalFoodStock,
	ReferredPets,
}

// ByKey finds a quick action by key.
func ByKey(key string) (Report, bool) {
	for _, r := range QuickActions {
		if r.Key == key {
			return r, true
		}
	}
	return Report{}, false
}
