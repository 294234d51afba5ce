package reports

import "fmt"

// Statements behind the REST endpoints.
var (
	Pets = Report{
		Key:   "mascotas",
		Title: "Mascotas",
		SQL: `SELECT m.chip_id, m.nombre_mascota, m.raza, m.peso AS peso_kg,
       m.edad_estimada, m.estado_adop, m.nombre_campus
FROM mascota m
ORDER BY m.nombre_mascota`,
	}

	PetByChip = Report{
		Key:   "mascota",
		Title: "Mascota",
		SQL: `SELECT m.chip_id, m.nombre_mascota, m.raza, m.peso AS peso_kg,
       m.edad_estimada, m.estado_adop, m.nombre_campus
FROM mascota m
WHERE m.chip_id = $1`,
		Params: 1,
	}

	Branches = Report{
		Key:   "sucursales",
		Title: "Sucursales",
		SQL: `SELECT nombre_campus, direccion
FROM sucursal
ORDER BY nombre_campus`,
	}

	PetsPerCampus = Report{
		Key:   "mascotas-por-campus",
		Title: "Mascotas por campus",
		SQL: `SELECT s.nombre_campus, COUNT(m.chip_id) AS total_mascotas
FROM sucursal s
LEFT JOIN mascota m ON m.nombre_campus = s.nombre_campus
GROUP BY s.nombre_campus
ORDER BY total_mascotas DESC`,
	}

	PetVaccines = Report{
		Key:   "vacunas",
		Title: "Vacunas de una mascota",
		SQL: `SELECT v.id_vacuna, v.nombre_vacuna, v.fecha_aplicacion
FROM vacuna v
WHERE v.chip_id = $1
ORDER BY v.fecha_aplicacion DESC`,
		Params: 1,
	}

	TreatmentsDone = Report{
		Key:   "tratamientos",
		Title: "Tratamientos realizados",
		SQL: `SELECT t.id_tratamiento, t.chip_id, m.nombre_mascota, t.descripcion,
       t.fecha_tratamiento_inic, t.fecha_tratamiento_fin
FROM tratamiento t
JOIN mascota m ON m.chip_id = t.chip_id
WHERE t.fecha_tratamiento_fin IS NULL OR t.fecha_tratamiento_fin < CURRENT_DATE
ORDER BY t.fecha_tratamiento_inic`,
	}

	PetTreatments = Report{
		Key:   "tratamientos-mascota",
		Title: "Tratamientos de una mascota",
		SQL: `SELECT t.id_tratamiento, t.descripcion, t.fecha_tratamiento_inic, t.fecha_tratamiento_fin
FROM tratamiento t
WHERE t.chip_id = $1
ORDER BY t.fecha_tratamiento_inic DESC`,
		Params: 1,
	}

	PetReferrals = Report{
		Key:   "derivaciones-mascota",
		Title: "Derivaciones de una mascota",
		SQL: `SELECT d.id_derivacion, d.ubicacion_vet, d.motivo, d.fecha
FROM derivacion d
WHERE d.chip_id = $1
ORDER BY d.fecha DESC`,
		Params: 1,
	}

	MedicineInventory = Report{
		Key:   "inventario-medicamentos",
		Title: "Inventario de medicamentos",
		SQL: `SELECT s.nombre_campus, i.nombre AS medicamento, i.cantidad, med.gramaje
FROM inventario i
JOIN sucursal s ON i.nombre_campus = s.nombre_campus
JOIN medicamento med ON med.id_item = i.id_item
WHERE i.tipo = 'Medicamento'
ORDER BY s.nombre_campus, i.nombre`,
	}
)

// criticalStock is the quantity below which a food item is critical.
const criticalStock = 10

const foodInventoryBase = `SELECT i.nombre AS nombre_item, i.unidad_de_medida, i.cantidad, i.nombre_campus, i.fecha_venc
FROM inventario i
WHERE i.tipo = 'Comida'`

// FoodInventory returns the food stock report, restricted to critical items
// when critical is set.
func FoodInventory(critical bool) Report {
	sql := foodInventoryBase
	key := "inventario-comida"
	if critical {
		sql += fmt.Sprintf("\n  AND i.cantidad < %d", criticalStock)
		key += "-critico"
	}
	return Report{
		Key:   key,
		Title: "Inventario de comida",
		SQL:   sql + "\nORDER BY i.nombre_campus, i.nombre",
	}
}
