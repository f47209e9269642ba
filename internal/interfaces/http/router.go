package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Requests    *stock.RequestUseCase
	Fulfillment *stock.FulfillmentUseCase
	DirectEntry *stock.DirectEntryUseCase
	Summary     *stock.SummaryUseCase
	Files       stock.FileStore
	Mapper      stock.Mapper
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el ledger requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	requestHandler := NewStockRequestHandler(deps.Requests, deps.Fulfillment, deps.Mapper)
	ledgerHandler := NewLedgerHandler(deps.DirectEntry, deps.Summary, deps.Mapper)

	st := api.Group("/stock")
	st.Post("/requests", requestHandler.Create)
	st.Get("/requests", requestHandler.ListPending)
	st.Get("/requests/:id", requestHandler.Get)
	st.Post("/requests/:id/fulfill", requestHandler.Fulfill)

	st.Post("/direct-entries", ledgerHandler.DirectEntry)
	st.Post("/consumptions", ledgerHandler.Consume)

	items := st.Group("/items/:class/:id")
	items.Get("/summary", ledgerHandler.Summary)
	items.Get("/movements", ledgerHandler.Movements)
	items.Get("/verify", ledgerHandler.Verify)

	st.Get("/low-stock", ledgerHandler.LowStock)

	// Archivos de evidencia (foto de recepción, documentos de soporte)
	if deps.Files != nil {
		fileHandler := NewFileHandler(deps.Files)
		api.Post("/files", fileHandler.Upload)
	}
}
