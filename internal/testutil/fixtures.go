// Package testutil holds master-data fixtures shared by package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ClientColumns, SupplierColumns and ServiceColumns mirror the MDM export headers.
var (
	ClientColumns = []string{"ClienteID", "RazonSocial", "Segmento", "CanalPreferido", "ZonaDespacho", "Departamento", "LimiteCredito"}

	SupplierColumns = []string{"ProveedorID", "RazonSocial", "Categoria", "LeadTimePromedioDias", "ToleranciaEntregaDias",
		"RatingDesempeno", "CertificadoCalidad", "Estado", "RUC", "Departamento"}

	ServiceColumns = []string{"ServicioID", "NombreServicio", "Categoria", "Subcategoria", "UnidadTarifa", "TipoUnidad",
		"TarifaBase", "Moneda", "RequiereCertificacion", "Temperatura", "LeadTimeMinDias", "LeadTimeMaxDias",
		"TiempoEjecucionHoras", "ModalidadContrato", "Estado", "CantidadPedidoEstandar", "CostoEstandar",
		"TarifaImpuesto", "TemperaturaControlada", "CaducidadControlada", "SLA", "ClientePropietario"}
)

// SampleClients is a small client master with one duplicated ID.
func SampleClients() *domain.Table {
	return &domain.Table{
		Name:    "clientes",
		Columns: ClientColumns,
		Rows: [][]string{
			{"CLI-001", "Acme", "PREFERENTE", "WEB", "NORTE", "Lima", "50000"},
			{"CLI-002", "", "", "", "", "", ""},
			{"CLI-002", "Beta", "basico", "TEL", "SUR", "Arequipa", "20000"},
			{"CLI-003", "Gamma", "ESTANDAR", "WEB", "CENTRO", "Lima", "N/A"},
			{" CLI-004 ", "Delta", "", "EMAIL", "ESTE", "Cusco", "10000"},
		},
	}
}

// SampleSuppliers has three logistics and two services suppliers.
// Medians: RatingDesempeno 4.5, LeadTimePromedioDias 8.
func SampleSuppliers() *domain.Table {
	return &domain.Table{
		Name:    "proveedores",
		Columns: SupplierColumns,
		Rows: [][]string{
			{"PRV-001", "Logi Uno", "LOGISTICA", "6", "2", "4.5", "SI", "ACTIVO", "20123456789", "Lima"},
			{"PRV-002", "Logi Dos", "logistica", "3", "1", "4.5", "NO", "ACTIVO", "2012345", "Arequipa"},
			{"PRV-003", "Serv Uno", "SERVICIOS", "10", "3", "3.9", "SI", "ACTIVO", "20987654321", "Lima"},
			{"PRV-004", "Serv Dos", "SERVICIOS", "", "0", "", "NO", "INACTIVO", "abc", "Cusco"},
			{"PRV-005", "Logi Tres", "LOGISTICA", "20", "5", "4.8", "SI", "ACTIVO", "20111111111", "Cusco"},
		},
	}
}

// SampleServices covers every category branch of the supplier matcher.
func SampleServices() *domain.Table {
	return &domain.Table{
		Name:    "servicios",
		Columns: ServiceColumns,
		Rows: [][]string{
			service("SRV-001", "Transporte", "CLI-001", "100", "12", "24h / 98%"),
			service("SRV-002", "Almacenaje", "CLI-002", "80", "30", "48 H"),
			service("SRV-003", "Consultoría", "CLI-003", "40", "5", "95%"),
			service("SRV-004", "Tecnología", "CLI-004", "60", "90", ""),
			service("SRV-005", "Otros", "CLI-001", "20", "", "NULL"),
			service("SRV-006", "Distribución", "CLI-999", "150", "20", "12h"),
			service("SRV-007", "Valor agregado", "CLI-002", "", "7", "72h 99%"),
			service("SRV-008", "Comercio exterior", "CLI-003", "0", "15", "24h"),
		},
	}
}

func service(id, category, client, qty, leadMax, sla string) []string {
	return []string{
		id, "Servicio " + id, category, "General", "UND", "UNIDAD",
		"150.5", "PEN", "NO", "AMBIENTE", "1", leadMax,
		"8", "MENSUAL", "ACTIVO", qty, "75",
		"0.18", "NO", "NO", sla, client,
	}
}

// GeneratedMasters builds n deterministic services spread over four clients
// and six suppliers, large enough for a train/test split with both labels.
func GeneratedMasters(n int) (clients, suppliers, services *domain.Table) {
	clients = &domain.Table{Name: "clientes", Columns: ClientColumns}
	segments := []string{"BASICO", "ESTANDAR", "PREFERENTE", ""}
	depts := []string{"Lima", "Arequipa", "Cusco", "Piura"}
	for i := 0; i < 4; i++ {
		clients.Rows = append(clients.Rows, []string{
			fmt.Sprintf("CLI-%03d", i+1), fmt.Sprintf("Cliente %d", i+1), segments[i],
			"WEB", "ZONA", depts[i], "1000",
		})
	}

	suppliers = &domain.Table{Name: "proveedores", Columns: SupplierColumns}
	categories := []string{"LOGISTICA", "SERVICIOS"}
	for i := 0; i < 6; i++ {
		suppliers.Rows = append(suppliers.Rows, []string{
			fmt.Sprintf("PRV-%03d", i+1), fmt.Sprintf("Proveedor %d", i+1), categories[i%2],
			fmt.Sprintf("%d", 4+i*4), fmt.Sprintf("%d", i%3), fmt.Sprintf("%.1f", 3.5+float64(i%4)*0.4),
			"SI", "ACTIVO", "20123456789", depts[i%4],
		})
	}

	services = &domain.Table{Name: "servicios", Columns: ServiceColumns}
	serviceCategories := []string{"Transporte", "Almacenaje", "Consultoría", "Tecnología", "Distribución"}
	for i := 0; i < n; i++ {
		services.Rows = append(services.Rows, service(
			fmt.Sprintf("SRV-%03d", i+1),
			serviceCategories[i%len(serviceCategories)],
			fmt.Sprintf("CLI-%03d", i%4+1),
			fmt.Sprintf("%d", 20+(i*37)%180),
			fmt.Sprintf("%d", (i*11)%60),
			fmt.Sprintf("%dh", 12+(i%3)*12),
		))
	}

	return clients, suppliers, services
}

// WriteMasterWorkbooks writes the three master workbooks (with a dictionary
// sheet on the clients workbook) into dir.
func WriteMasterWorkbooks(t *testing.T, dir string, clients, suppliers, services *domain.Table) {
	t.Helper()

	dict := &domain.Table{
		Columns: []string{"Campo", "Descripcion"},
		Rows:    [][]string{{"ClienteID", "Identificador del cliente"}, {"Segmento", "Segmento comercial"}},
	}

	writeWorkbook(t, filepath.Join(dir, "maestro_clientes.xlsx"), "Maestro de Clientes", clients, dict)
	writeWorkbook(t, filepath.Join(dir, "maestro_proveedores.xlsx"), "Proveedores_data", suppliers, nil)
	writeWorkbook(t, filepath.Join(dir, "maestro_servicios.xlsx"), "Servicios_data", services, nil)
}

func writeWorkbook(t *testing.T, path, sheet string, data, dict *domain.Table) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	writeTable(t, f, sheet, data)

	if dict != nil {
		_, err := f.NewSheet("DICCIONARIO")
		require.NoError(t, err)
		writeTable(t, f, "DICCIONARIO", dict)
	}

	require.NoError(t, f.SaveAs(path))
}

func writeTable(t *testing.T, f *excelize.File, sheet string, table *domain.Table) {
	t.Helper()

	rows := append([][]string{table.Columns}, table.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
}
