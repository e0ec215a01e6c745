// seed_catalog genera un script SQL para poblar categorías, ubicaciones y productos
// a partir de un catálogo XML (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [salida.sql]
// Por defecto lee catalogo.xml del directorio actual y escribe
// internal/infrastructure/postgres/seeds/catalog.sql.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	c, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, c, filepath.Base(xmlPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d categorías, %d ubicaciones, %d productos\n",
		outPath, len(c.Categorias), len(c.Ubicaciones), len(c.Productos))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
