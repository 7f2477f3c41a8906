package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type TicketController struct {
	DB *gorm.DB
}

func NewTicketController(db *gorm.DB) *TicketController {
	return &TicketController{DB: db}
}

// CreateTicket -> generate ticket penjualan dari daftar (product, qty).
// Seluruhnya jalan dalam satu transaksi: baris pertama yang stoknya
// kurang membatalkan semuanya, tanpa tulisan parsial. Kalau ticket
// dibuat dari reservasi, reservasi itu ikut terhapus di transaksi
// yang sama.
func (tc *TicketController) CreateTicket(c *gin.Context) {
	type LineReq struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required"`
	}

	var req struct {
		ReservationID *uint     `json:"reservation_id"`
		Lines         []LineReq `json:"lines" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(req.Lines) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("ticket needs at least one line"))
		return
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be greater than zero"))
			return
		}
	}

	userID := c.GetUint("user_id")

	ticket := models.Ticket{
		UserID: userID,
	}
	var touched []models.Product

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var total float64

		for _, line := range req.Lines {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				return fmt.Errorf("product %d not found", line.ProductID)
			}

			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s (requested %d, available %d)",
					ErrInsufficientStock, product.Name, line.Quantity, product.Stock)
			}

			product.Stock -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
			touched = append(touched, product)

			subtotal := float64(line.Quantity) * product.Price
			total += subtotal

			ticket.Lines = append(ticket.Lines, models.TicketLine{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}

		ticket.Total = total
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		// Nomor ticket butuh ID, jadi diisi setelah insert
		number := fmt.Sprintf("TKT/%s/%06d", time.Now().Format("20060102"), ticket.ID)
		ticket.TicketNumber = number
		if err := tx.Model(&models.Ticket{}).
			Where("id = ?", ticket.ID).
			Update("ticket_number", number).Error; err != nil {
			return err
		}

		if req.ReservationID != nil {
			result := tx.Delete(&models.Reservation{}, *req.ReservationID)
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tc.DB.Preload("Lines").Preload("Lines.Product").Preload("User").First(&ticket, ticket.ID)

	events.BroadcastTicketCreated(ticket)
	for _, product := range touched {
		checkLowStock(product)
	}

	utils.InfoLogger.Printf("Ticket %s created: %d lines, total=%.2f",
		ticket.TicketNumber, len(ticket.Lines), ticket.Total)
	utils.RespondJSON(c, http.StatusCreated, "Ticket created", ticket)
}

// GetAllTickets -> list tickets beserta lines
func (tc *TicketController) GetAllTickets(c *gin.Context) {
	var tickets []models.Ticket
	if err := tc.DB.Preload("Lines").Preload("Lines.Product").Preload("User").
		Order("created_at desc").
		Find(&tickets).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tickets", tickets)
}

// GetTicketByID -> detail 1 ticket
func (tc *TicketController) GetTicketByID(c *gin.Context) {
	ticketID := c.Param("ticket_id")

	var ticket models.Ticket
	if err := tc.DB.Preload("Lines").Preload("Lines.Product").Preload("User").
		First(&ticket, ticketID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Ticket detail", ticket)
}

// DeleteTicket -> hapus ticket, lines ikut terhapus (cascade)
func (tc *TicketController) DeleteTicket(c *gin.Context) {
	ticketID := c.Param("ticket_id")

	var ticket models.Ticket
	if err := tc.DB.First(&ticket, ticketID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&models.TicketLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ticket).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Ticket %d deleted", ticket.ID)
	utils.RespondJSON(c, http.StatusOK, "Ticket deleted", gin.H{
		"id": ticket.ID,
	})
}

// GetReceipt -> render struk ticket sebagai PDF siap cetak
func (tc *TicketController) GetReceipt(c *gin.Context) {
	ticketID := c.Param("ticket_id")

	var ticket models.Ticket
	if err := tc.DB.Preload("Lines").Preload("Lines.Product").Preload("User").
		First(&ticket, ticketID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "TPV Gastronomico", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Ticket: %s", ticket.TicketNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, ticket.CreatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Served by: %s", ticket.User.Name), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range ticket.Lines {
		pdf.CellFormat(90, 7, tr(line.Product.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("x%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, tr(utils.FormatCurrencyEUR(line.UnitPrice)), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr(utils.FormatCurrencyEUR(line.Subtotal)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "TOTAL", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, tr(utils.FormatCurrencyEUR(ticket.Total)), "T", 1, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=ticket_%d.pdf", ticket.ID))

	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error rendering receipt PDF for ticket %d: %v", ticket.ID, err)
	}
}
