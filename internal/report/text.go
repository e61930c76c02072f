package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// RenderText writes a plain-text production cost report.
func RenderText(w io.Writer, in Input, summary Summary, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Reporte de Costo de Producción RAL")
	if in.Mix != nil {
		fmt.Fprintf(tw, "Mix: %s (ID: %s)\n", in.Mix.Name, in.Mix.ID)
	} else {
		fmt.Fprintln(tw, "Mix: Nuevo mix RAL")
	}
	fmt.Fprintf(tw, "Fecha: %s\n", now.Format("2006-01-02 15:04"))

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Tabla de Colorantes")
	fmt.Fprintln(tw, "Código\tColorante\tY's\tPuntos\t")
	for _, row := range ColorantRows(in.Measurements) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", row.Code, row.Name, row.Y, row.Points)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Detalles del Costo")
	fmt.Fprintln(tw, "Concepto\tValor\t+IVA\t")
	for _, row := range summary.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Label, row.Display, row.WithTax)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}
