package database

import (
	"fmt"
	"time"

	"github.com/mroshb/trivia_duel/internal/config"
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/logger"
	"github.com/mroshb/trivia_duel/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true, // Skip wrapping every operation in a transaction
		PrepareStmt:            true, // Cache prepared statements
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Player{},
		&models.Topic{},
		&models.Question{},
		&models.Choice{},
		&models.Match{},
		&models.Round{},
		&models.TopicOffer{},
		&models.RoundSession{},
		&models.AnswerLog{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedContent loads a small starter question bank when the topics table
// is empty, so a fresh install is playable without an import run.
func SeedContent(db *gorm.DB) error {
	var topicCount int64
	db.Model(&models.Topic{}).Count(&topicCount)
	if topicCount > 0 {
		return nil
	}

	logger.Info("Seeding starter topics and questions...")

	type seedQuestion struct {
		text    string
		options [4]string
		correct int // index into options
	}

	seed := map[string][]seedQuestion{
		"Geography": {
			{"What is the capital of France?", [4]string{"Paris", "London", "Berlin", "Rome"}, 0},
			{"Which is the largest ocean?", [4]string{"Atlantic", "Indian", "Pacific", "Arctic"}, 2},
			{"Which river flows through Cairo?", [4]string{"Tigris", "Nile", "Danube", "Amazon"}, 1},
			{"Mount Everest lies on the border of Nepal and which country?", [4]string{"India", "Bhutan", "China", "Pakistan"}, 2},
			{"Which country has the most time zones?", [4]string{"Russia", "USA", "France", "China"}, 2},
			{"What is the smallest country in the world?", [4]string{"Monaco", "Malta", "Vatican City", "San Marino"}, 2},
		},
		"Science": {
			{"Which planet is known as the Red Planet?", [4]string{"Earth", "Mars", "Jupiter", "Venus"}, 1},
			{"What is the chemical symbol for gold?", [4]string{"Go", "Gd", "Au", "Ag"}, 2},
			{"How many bones does an adult human have?", [4]string{"196", "206", "216", "226"}, 1},
			{"What gas do plants absorb from the atmosphere?", [4]string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"}, 2},
			{"What is the speed of light, roughly?", [4]string{"300,000 km/s", "150,000 km/s", "1,000,000 km/s", "30,000 km/s"}, 0},
			{"Which particle carries a negative charge?", [4]string{"Proton", "Neutron", "Electron", "Photon"}, 2},
		},
		"History": {
			{"Who invented the telephone?", [4]string{"Thomas Edison", "Alexander Graham Bell", "Nikola Tesla", "Isaac Newton"}, 1},
			{"In which year did World War II end?", [4]string{"1943", "1944", "1945", "1946"}, 2},
			{"Who was the first president of the United States?", [4]string{"Thomas Jefferson", "John Adams", "George Washington", "Abraham Lincoln"}, 2},
			{"The Great Wall is located in which country?", [4]string{"Japan", "Korea", "Mongolia", "China"}, 3},
			{"Which empire built the Colosseum?", [4]string{"Greek", "Roman", "Ottoman", "Persian"}, 1},
			{"Who painted the Mona Lisa?", [4]string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"}, 2},
		},
		"Sports": {
			{"How many players are on a soccer team on the field?", [4]string{"9", "10", "11", "12"}, 2},
			{"In which sport is the term 'love' used for zero?", [4]string{"Golf", "Tennis", "Cricket", "Badminton"}, 1},
			{"How often are the Summer Olympics held?", [4]string{"Every 2 years", "Every 3 years", "Every 4 years", "Every 5 years"}, 2},
			{"Which country won the 2018 FIFA World Cup?", [4]string{"Germany", "Brazil", "France", "Argentina"}, 2},
			{"How many points is a basketball free throw worth?", [4]string{"1", "2", "3", "4"}, 0},
			{"What is the maximum break in snooker?", [4]string{"147", "155", "100", "180"}, 0},
		},
		"Economy": {
			{"What is the currency of Japan?", [4]string{"Yuan", "Won", "Yen", "Ringgit"}, 2},
			{"Which currency is used in most of the European Union?", [4]string{"Pound", "Franc", "Euro", "Krona"}, 2},
			{"What does GDP stand for?", [4]string{"Gross Domestic Product", "General Domestic Price", "Global Direct Payment", "Gross Direct Profit"}, 0},
			{"Which metal is traditionally a safe-haven asset?", [4]string{"Copper", "Gold", "Aluminium", "Zinc"}, 1},
			{"Where is Wall Street located?", [4]string{"Chicago", "London", "New York", "Tokyo"}, 2},
			{"What does a central bank primarily control?", [4]string{"Taxes", "Monetary policy", "Trade routes", "Elections"}, 1},
		},
		"Technology": {
			{"Who co-founded Apple with Steve Jobs?", [4]string{"Bill Gates", "Steve Wozniak", "Elon Musk", "Larry Page"}, 1},
			{"What does CPU stand for?", [4]string{"Central Processing Unit", "Computer Personal Unit", "Central Program Utility", "Core Processing Utility"}, 0},
			{"Which company develops the Android operating system?", [4]string{"Apple", "Microsoft", "Google", "Samsung"}, 2},
			{"What does HTTP stand for?", [4]string{"HyperText Transfer Protocol", "High Transfer Text Process", "Hyper Terminal Transport Protocol", "Host Text Transfer Program"}, 0},
			{"In what decade was the World Wide Web invented?", [4]string{"1970s", "1980s", "1990s", "2000s"}, 1},
			{"Which language was created at Google?", [4]string{"Rust", "Go", "Swift", "Kotlin"}, 1},
		},
	}

	for name, questions := range seed {
		topic := models.Topic{Name: name, Slug: utils.Slugify(name)}
		if err := db.Create(&topic).Error; err != nil {
			return fmt.Errorf("failed to seed topic %s: %w", name, err)
		}

		for _, sq := range questions {
			question := models.Question{
				TopicID:  topic.ID,
				Text:     sq.text,
				Approved: true,
			}
			if err := db.Create(&question).Error; err != nil {
				return fmt.Errorf("failed to seed question: %w", err)
			}

			for i, opt := range sq.options {
				choice := models.Choice{
					QuestionID: question.ID,
					Text:       opt,
					IsCorrect:  i == sq.correct,
				}
				if err := db.Create(&choice).Error; err != nil {
					return fmt.Errorf("failed to seed choice: %w", err)
				}
			}
		}
	}

	logger.Info("Starter content seeded", "topics", len(seed))
	return nil
}
