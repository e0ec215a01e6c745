package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace base para los UUID deterministas de productos y ubicaciones:
// regenerar el seed con el mismo XML produce los mismos ids.
var catalogNamespace = uuid.MustParse("5b1d6c8e-2f4a-4d7b-9a61-0c3e8f27d914")

type catalogo struct {
	Categorias  []categoria `xml:"categorias>categoria"`
	Ubicaciones []ubicacion `xml:"ubicaciones>ubicacion"`
	Productos   []producto  `xml:"productos>producto"`
}

type categoria struct {
	Nombre      string `xml:"nombre,attr"`
	Descripcion string `xml:"descripcion,attr"`
}

type ubicacion struct {
	Codigo      string `xml:"codigo,attr"`
	Nombre      string `xml:"nombre,attr"`
	Descripcion string `xml:"descripcion,attr"`
}

type producto struct {
	Codigo      string `xml:"codigo,attr"`
	Nombre      string `xml:"nombre,attr"`
	Unidad      string `xml:"unidad,attr"`
	Categoria   string `xml:"categoria,attr"`
	Descripcion string `xml:"descripcion,attr"`
}

// parseCatalog decodifica el XML del catálogo (UTF-8 o ISO-8859-1), descarta entradas
// incompletas y deduplica por nombre/código quedándose con la última aparición.
func parseCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	cats := make(map[string]categoria)
	for _, v := range c.Categorias {
		v.Nombre = strings.TrimSpace(v.Nombre)
		if v.Nombre == "" {
			continue
		}
		v.Descripcion = strings.TrimSpace(v.Descripcion)
		cats[v.Nombre] = v
	}
	locs := make(map[string]ubicacion)
	for _, v := range c.Ubicaciones {
		v.Codigo, v.Nombre = strings.TrimSpace(v.Codigo), strings.TrimSpace(v.Nombre)
		if v.Codigo == "" || v.Nombre == "" {
			continue
		}
		v.Descripcion = strings.TrimSpace(v.Descripcion)
		locs[v.Codigo] = v
	}
	prods := make(map[string]producto)
	for _, v := range c.Productos {
		v.Codigo, v.Nombre = strings.TrimSpace(v.Codigo), strings.TrimSpace(v.Nombre)
		if v.Codigo == "" || v.Nombre == "" {
			continue
		}
		v.Unidad = strings.TrimSpace(v.Unidad)
		if v.Unidad == "" {
			v.Unidad = "und"
		}
		v.Categoria = strings.TrimSpace(v.Categoria)
		v.Descripcion = strings.TrimSpace(v.Descripcion)
		// Una categoría referenciada pero no declarada se crea con descripción vacía.
		if _, ok := cats[v.Categoria]; v.Categoria != "" && !ok {
			cats[v.Categoria] = categoria{Nombre: v.Categoria}
		}
		prods[v.Codigo] = v
	}

	out := &catalogo{}
	for _, k := range sortedKeys(cats) {
		out.Categorias = append(out.Categorias, cats[k])
	}
	for _, k := range sortedKeys(locs) {
		out.Ubicaciones = append(out.Ubicaciones, locs[k])
	}
	for _, k := range sortedKeys(prods) {
		out.Productos = append(out.Productos, prods[k])
	}
	return out, nil
}

// writeSQL escribe el seed en SQL PostgreSQL, idempotente (ON CONFLICT).
func writeSQL(w io.Writer, c *catalogo, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial: categorías, ubicaciones y productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	if len(c.Categorias) > 0 {
		b.WriteString("-- 1. Categorías\n")
		b.WriteString("INSERT INTO categories (name, description) VALUES\n")
		for i, v := range c.Categorias {
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", escapeSQL(v.Nombre), escapeSQL(v.Descripcion), sep(i, len(c.Categorias)))
		}
		b.WriteString("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;\n\n")
	}

	if len(c.Ubicaciones) > 0 {
		b.WriteString("-- 2. Ubicaciones\n")
		b.WriteString("INSERT INTO locations (id, code, name, description) VALUES\n")
		for i, v := range c.Ubicaciones {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s')%s\n",
				stableID("location", v.Codigo), escapeSQL(v.Codigo), escapeSQL(v.Nombre), escapeSQL(v.Descripcion),
				sep(i, len(c.Ubicaciones)))
		}
		b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description;\n\n")
	}

	if len(c.Productos) > 0 {
		// Productos con subquery a la categoría por nombre
		b.WriteString("-- 3. Productos\n")
		for _, v := range c.Productos {
			cat := "NULL"
			if v.Categoria != "" {
				cat = fmt.Sprintf("(SELECT id FROM categories WHERE name = '%s')", escapeSQL(v.Categoria))
			}
			b.WriteString("INSERT INTO products (id, code, name, unit, description, category_id)\n")
			fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', %s)\n",
				stableID("product", v.Codigo), escapeSQL(v.Codigo), escapeSQL(v.Nombre),
				escapeSQL(v.Unidad), escapeSQL(v.Descripcion), cat)
			b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit,\n")
			b.WriteString("  description = EXCLUDED.description, category_id = EXCLUDED.category_id;\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stableID(kind, code string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(kind+":"+code)).String()
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
