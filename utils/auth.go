package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/models"
)

var jwtSecret = []byte(func() string {
	if secret := os.Getenv("HRMS_JWT_SECRET"); secret != "" {
		return secret
	}
	return "supersecretkey"
}())

// SetJWTSecret overrides the signing secret; called from main with the
// configured value.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

func JwtSecret() []byte {
	return jwtSecret
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
	return err == nil
}

func GenerateJWT(employee models.Employee) (string, error) {
	claims := jwt.MapClaims{
		"employee_id": employee.ID,
		"role":        string(employee.Role),
		"exp":         time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		claims,
	)

	return token.SignedString(jwtSecret)
}

// GetRecursiveReportIDs walks the reporting hierarchy downward from a
// manager, returning every direct and indirect report.
func GetRecursiveReportIDs(managerID uint, db *gorm.DB) []uint {
	var reportIDs []uint
	var employees []models.Employee

	db.Where("reporting_manager_id = ?", managerID).Find(&employees)

	for _, e := range employees {
		reportIDs = append(reportIDs, e.ID)
		reportIDs = append(reportIDs, GetRecursiveReportIDs(e.ID, db)...)
	}

	return reportIDs
}
