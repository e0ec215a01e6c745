// Package xmlreport serializa el reporte de stock a XML con etree y calcula su digest
// sobre la forma canónica (C14N 1.0).
package xmlreport

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// Namespace del documento.
const Namespace = "urn:stock-ledger:report:stock:1"

// Renderer implementa report.XMLRenderer.
type Renderer struct{}

var _ report.XMLRenderer = (*Renderer)(nil)

// NewRenderer construye el serializador.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderStockReport devuelve el XML (con declaración) y el digest SHA-256 en base64 de su forma canónica.
func (r *Renderer) RenderStockReport(rep *dto.StockReportDTO) ([]byte, string, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("StockReport")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("title", rep.Title)
	root.CreateAttr("generatedAt", rep.GeneratedAt.UTC().Format(time.RFC3339))

	filters := root.CreateElement("Filters")
	setAttrIf(filters, "productId", rep.Filters.ProductID)
	setAttrIf(filters, "locationId", rep.Filters.LocationID)
	if rep.Filters.CategoryID > 0 {
		filters.CreateAttr("categoryId", strconv.FormatInt(rep.Filters.CategoryID, 10))
	}
	setAttrIf(filters, "startDate", rep.Filters.From)
	setAttrIf(filters, "endDate", rep.Filters.To)

	rows := root.CreateElement("Rows")
	for _, row := range rep.Rows {
		el := rows.CreateElement("Row")
		el.CreateAttr("productId", row.ProductID)
		el.CreateAttr("locationId", row.LocationID)
		el.CreateElement("ProductCode").SetText(row.ProductCode)
		el.CreateElement("ProductName").SetText(row.ProductName)
		el.CreateElement("Category").SetText(row.CategoryName)
		el.CreateElement("LocationCode").SetText(row.LocationCode)
		el.CreateElement("LocationName").SetText(row.LocationName)
		el.CreateElement("Quantity").SetText(strconv.FormatInt(row.Quantity, 10))
		el.CreateElement("TotalIn").SetText(strconv.FormatInt(row.TotalIn, 10))
		el.CreateElement("TotalOut").SetText(strconv.FormatInt(row.TotalOut, 10))
		el.CreateElement("NetMovement").SetText(strconv.FormatInt(row.NetMovement, 10))
		el.CreateElement("RotationPct").SetText(row.RotationPct.StringFixed(2))
	}

	totals := root.CreateElement("Totals")
	totals.CreateAttr("pairs", strconv.Itoa(rep.Totals.Pairs))
	totals.CreateElement("Quantity").SetText(strconv.FormatInt(rep.Totals.Quantity, 10))
	totals.CreateElement("TotalIn").SetText(strconv.FormatInt(rep.Totals.TotalIn, 10))
	totals.CreateElement("TotalOut").SetText(strconv.FormatInt(rep.Totals.TotalOut, 10))
	totals.CreateElement("NetMovement").SetText(strconv.FormatInt(rep.Totals.NetMovement, 10))
	totals.CreateElement("RotationPct").SetText(rep.Totals.RotationPct.StringFixed(2))

	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlreport: serializar: %w", err)
	}
	digest, err := Digest(body)
	if err != nil {
		return nil, "", err
	}
	return append([]byte(xml.Header), body...), digest, nil
}

// Digest SHA-256 en base64 de la forma canónica de data. data no debe incluir declaración XML.
func Digest(data []byte) (string, error) {
	canon, err := canonicalize(data)
	if err != nil {
		return "", fmt.Errorf("xmlreport: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canon)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func setAttrIf(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}
