package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
)

// Tipos de evento do feed de pacientes
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// PatientEvent é a mensagem publicada no Redis a cada mutação de paciente.
// Assinantes tratam qualquer evento como convite para recarregar.
type PatientEvent struct {
	Type    string          `json:"type"`
	Patient *models.Patient `json:"patient"`
}

// HospitalChannel retorna o canal com todas as mutações de um hospital
func HospitalChannel(hospitalID uuid.UUID) string {
	return fmt.Sprintf("patients:hospital:%s", hospitalID)
}

// PatientChannel retorna o canal de mutações de um único paciente
func PatientChannel(patientID uuid.UUID) string {
	return fmt.Sprintf("patients:%s", patientID)
}

// PublishPatientEvent publica o evento nos canais do hospital e do paciente.
// Falha de publicação não interrompe a operação que a originou.
func (c *Client) PublishPatientEvent(ctx context.Context, eventType string, patient *models.Patient) {
	event := PatientEvent{Type: eventType, Patient: patient}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Erro ao serializar evento de paciente: %v", err)
		return
	}

	for _, channel := range []string{HospitalChannel(patient.HospitalID), PatientChannel(patient.ID)} {
		if err := c.Publish(ctx, channel, payload); err != nil {
			log.Printf("Erro ao publicar evento em %s: %v", channel, err)
		}
	}
}

// StreamPatientEvents assina um canal e entrega eventos decodificados até o
// contexto encerrar. O canal retornado é fechado quando a assinatura termina.
func (c *Client) StreamPatientEvents(ctx context.Context, channel string) <-chan PatientEvent {
	sub := c.Subscribe(ctx, channel)
	out := make(chan PatientEvent)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event PatientEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Evento inválido em %s: %v", channel, err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
