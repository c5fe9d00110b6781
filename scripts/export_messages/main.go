package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/chat_app/internal/config"
	"github.com/mroshb/chat_app/internal/database"
	"github.com/mroshb/chat_app/internal/models"
	"github.com/mroshb/chat_app/internal/repositories"
	"github.com/xuri/excelize/v2"
)

var (
	headers = []string{"Time", "Sender", "Type", "Content", "Deleted"}

	sheetReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")
)

func main() {
	convID := flag.Uint("conversation", 0, "conversation id to export")
	out := flag.String("out", "messages.xlsx", "output file")
	flag.Parse()

	if *convID == 0 {
		log.Fatal("-conversation is required")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	convs := repositories.NewConversationRepository(db)
	msgRepo := repositories.NewMessageRepository(db)
	userRepo := repositories.NewUserRepository(db)

	conv, err := convs.GetConversationByID(uint(*convID))
	if err != nil {
		log.Fatal(err)
	}

	total, err := msgRepo.CountConversationMessages(conv.ID)
	if err != nil {
		log.Fatal(err)
	}

	msgs, err := msgRepo.GetConversationMessages(conv.ID, int(total))
	if err != nil {
		log.Fatal(err)
	}

	senderIDs := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		senderIDs = append(senderIDs, m.SenderID)
	}
	senders, err := userRepo.GetUsersByIDs(senderIDs)
	if err != nil {
		log.Fatal(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeMessages(f, sheetName(conv), msgs, senders); err != nil {
		log.Fatal(err)
	}
	if err := f.SaveAs(*out); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Exported %d of %d messages to %s\n", len(msgs), total, *out)
}

func sheetName(conv *models.Conversation) string {
	if conv.IsGroup && conv.Name != "" {
		name := []rune(sheetReplacer.Replace(conv.Name))
		// Excel caps sheet names at 31 characters
		if len(name) > 31 {
			name = name[:31]
		}
		return string(name)
	}
	return fmt.Sprintf("Conversation %d", conv.ID)
}

// writeMessages fills one sheet oldest message first. msgs arrive newest first.
func writeMessages(f *excelize.File, sheet string, msgs []models.Message, senders map[uint]models.User) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]

		sender := fmt.Sprintf("user %d", m.SenderID)
		if u, ok := senders[m.SenderID]; ok {
			sender = u.DisplayName()
		}
		content := m.Content
		if m.Type == models.MessageTypeDocument {
			if doc, err := models.ParseDocumentContent(m.Content); err == nil {
				content = doc.FileName
			}
		}

		values := []interface{}{m.CreatedAt.UTC().Format(time.RFC3339), sender, m.Type, content, m.IsDeleted}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	return nil
}
