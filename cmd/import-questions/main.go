// Command import-questions loads topics and questions from an Excel
// workbook into the question bank. One sheet per topic; each row holds a
// question, four options and the number of the correct option.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mroshb/trivia_duel/internal/repositories"
	"github.com/mroshb/trivia_duel/internal/security"
	"github.com/mroshb/trivia_duel/pkg/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	path := flag.String("file", "", "path to the Excel workbook")
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: import-questions -file questions.xlsx")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	content := repositories.NewContentRepository(db)

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)

		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		topicName := security.SanitizeText(sheetName)
		topic, err := content.UpsertTopic(topicName, utils.Slugify(topicName))
		if err != nil {
			fmt.Printf("Error creating topic %s: %v\n", topicName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 6 { // Skip header or invalid rows
				continue
			}

			// row[0]: Question Text
			// row[1..4]: Options
			// row[5]: Correct option number (1-4)

			text := security.SanitizeText(row[0])
			options := []string{
				security.SanitizeText(row[1]),
				security.SanitizeText(row[2]),
				security.SanitizeText(row[3]),
				security.SanitizeText(row[4]),
			}

			correct, err := strconv.Atoi(strings.TrimSpace(row[5]))
			if err != nil || correct < 1 || correct > 4 {
				fmt.Printf("Invalid correct option %q in row %d\n", row[5], i+1)
				continue
			}

			if _, err := content.CreateQuestion(topic.ID, text, options, correct-1); err != nil {
				fmt.Printf("Error importing row %d: %v\n", i+1, err)
				continue
			}

			totalImported++
		}
	}

	fmt.Printf("Done. Imported %d questions.\n", totalImported)
}
