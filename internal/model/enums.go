package model

// MaintenanceType classifies a maintenance intervention.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "Preventiva"
	MaintenanceCorrective MaintenanceType = "Corretiva"
	MaintenancePredictive MaintenanceType = "Preditiva"
	MaintenanceInspection MaintenanceType = "Vistoria/Inspeção"
	MaintenanceEmergency  MaintenanceType = "Emergencial"
)

// EquipmentType classifies a registered asset.
type EquipmentType string

const (
	EquipmentPump       EquipmentType = "Bomba"
	EquipmentExhaust    EquipmentType = "Exaustor"
	EquipmentHeater     EquipmentType = "Aquecedor"
	EquipmentPanel      EquipmentType = "Quadro de Comando"
	EquipmentElectrical EquipmentType = "Geral Elétrica"
	EquipmentHydraulic  EquipmentType = "Geral Hidráulica"
	EquipmentGenset     EquipmentType = "Gerador"
)

// ServiceCategory classifies a general log that is not tied to a
// specific asset.
type ServiceCategory string

const (
	ServiceElectrical ServiceCategory = "Elétrica"
	ServiceHydraulic  ServiceCategory = "Hidráulica"
	ServiceControl    ServiceCategory = "Comando/Automação"
	ServiceMechanical ServiceCategory = "Mecânica"
	ServiceInspection ServiceCategory = "Inspeção Normativa"
	ServiceOther      ServiceCategory = "Outros"
)

// EquipmentStatus is the derived condition of an asset. It is mutated
// only by the maintenance-log save workflow, never by the sync engine.
type EquipmentStatus string

const (
	StatusOperational EquipmentStatus = "Operacional"
	StatusWarning     EquipmentStatus = "Alerta"
	StatusCritical    EquipmentStatus = "Crítico"
	StatusOffline     EquipmentStatus = "Fora de Serviço"
)
