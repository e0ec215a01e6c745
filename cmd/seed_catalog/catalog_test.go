package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<catalogo>
  <categorias>
    <categoria nombre="Ferretería" descripcion="Tornillería y herrajes"/>
    <categoria nombre=" "/>
  </categorias>
  <ubicaciones>
    <ubicacion codigo="BOD-1" nombre="Bodega principal"/>
    <ubicacion codigo="" nombre="Sin código"/>
  </ubicaciones>
  <productos>
    <producto codigo="TOR-01" nombre="Tornillo 1/4" categoria="Ferretería"/>
    <producto codigo="PIN-01" nombre="Pintura D'Agua" unidad="gal" categoria="Pinturas"/>
    <producto codigo="TOR-01" nombre="Tornillo 1/4 galvanizado" categoria="Ferretería"/>
  </productos>
</catalogo>`

func TestParseCatalog(t *testing.T) {
	c, err := parseCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, c.Categorias, 2)
	assert.Equal(t, "Ferretería", c.Categorias[0].Nombre)
	assert.Equal(t, "Pinturas", c.Categorias[1].Nombre, "categoría referenciada se agrega")

	require.Len(t, c.Ubicaciones, 1)
	assert.Equal(t, "BOD-1", c.Ubicaciones[0].Codigo)

	require.Len(t, c.Productos, 2)
	assert.Equal(t, "PIN-01", c.Productos[0].Codigo)
	assert.Equal(t, "gal", c.Productos[0].Unidad)
	assert.Equal(t, "Tornillo 1/4 galvanizado", c.Productos[1].Nombre, "gana la última aparición")
	assert.Equal(t, "und", c.Productos[1].Unidad)
}

func TestParseCatalog_Latin1(t *testing.T) {
	body := `<?xml version="1.0" encoding="ISO-8859-1"?>` +
		`<catalogo><categorias><categoria nombre="Eléctricos"/></categorias></catalogo>`
	enc, err := charmap.ISO8859_1.NewEncoder().String(body)
	require.NoError(t, err)

	c, err := parseCatalog(strings.NewReader(enc))
	require.NoError(t, err)
	require.Len(t, c.Categorias, 1)
	assert.Equal(t, "Eléctricos", c.Categorias[0].Nombre)
}

func TestParseCatalog_Malformed(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("<catalogo><productos>"))
	assert.Error(t, err)
}

func TestWriteSQL(t *testing.T) {
	c, err := parseCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, c, "catalogo.xml"))
	sql := buf.String()

	assert.Contains(t, sql, "-- Generado desde catalogo.xml")
	assert.Contains(t, sql, "('Ferretería', 'Tornillería y herrajes'),\n  ('Pinturas', '')\nON CONFLICT (name)")
	assert.Contains(t, sql, "'Pintura D''Agua'")
	assert.Contains(t, sql, "(SELECT id FROM categories WHERE name = 'Pinturas')")
	assert.Contains(t, sql, stableID("product", "TOR-01"))
	assert.Contains(t, sql, stableID("location", "BOD-1"))
}

func TestStableID(t *testing.T) {
	assert.Equal(t, stableID("product", "A"), stableID("product", "A"))
	assert.NotEqual(t, stableID("product", "A"), stableID("location", "A"))
}
