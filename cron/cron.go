package cron

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/mmhealthtech/clinic-ops/config"
	"github.com/mmhealthtech/clinic-ops/db"
	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments starting in about an hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders finds upcoming appointments and emails patients.
// Appointments store clinic-local dates and minutes, so the window is
// computed in clinic time, not server time.
func sendAppointmentReminders() {
	now := utils.Now().In(utils.ClinicZone)
	today := now.Format("2006-01-02")
	nowMin := now.Hour()*60 + now.Minute()

	// An appointment around midnight clinic time can sit on tomorrow's date
	// while its reminder window is still open today, so check both days.
	startWindow := nowMin + 55
	endWindow := nowMin + 65

	var appointments []models.Appointment
	err := db.DB.Preload("Patient").Preload("Doctor").
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusCheckedIn}).
		Where("(date = ? AND start_min BETWEEN ? AND ?) OR (date = ? AND start_min BETWEEN ? AND ?)",
			today, startWindow, endWindow,
			now.AddDate(0, 0, 1).Format("2006-01-02"), startWindow-24*60, endWindow-24*60).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if appointment.Patient.Email == "" {
			continue
		}
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	cfg := config.Get()
	mailer := utils.Mailer{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.EmailUser,
		Pass: cfg.EmailPass,
	}

	start, err := utils.ToLocalInstant(appointment.Date, appointment.StartMin)
	if err != nil {
		return err
	}

	subject := "Reminder: Upcoming Appointment"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment in about one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Department:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive a few minutes early. If you need to reschedule or cancel, contact the clinic as soon as possible.</p>
	`, appointment.Patient.Name, appointment.Doctor.Name, appointment.Department,
		start.In(utils.ClinicZone).Format("Monday, 2 Jan 2006 at 15:04"))

	return mailer.Send(appointment.Patient.Email, subject, body)
}
