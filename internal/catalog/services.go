package catalog

// Сервисы, которые обслуживает reference backend и знает CLI.
var (
	AuditManager = &Service{
		Name:   "auditmanager",
		Prefix: "AUDM",
		Title:  "Audit Manager",
		Kinds: []Kind{
			{Name: "Control", Plural: "Controls"},
			{Name: "Assessment", Plural: "Assessments"},
		},
	}

	MediaPipelines = &Service{
		Name:   "mediapipelines",
		Prefix: "CHMMP",
		Title:  "Media Pipelines",
		Kinds: []Kind{
			{Name: "MediaPipeline", Plural: "MediaPipelines"},
		},
	}

	Wisdom = &Service{
		Name:   "wisdom",
		Prefix: "WSDM",
		Title:  "Wisdom",
		Kinds: []Kind{
			{Name: "KnowledgeBase", Plural: "KnowledgeBases"},
		},
	}

	KMS = &Service{
		Name:   "kms",
		Prefix: "KMS",
		Title:  "Key Management Service",
		Kinds: []Kind{
			{Name: "Key", Plural: "Keys"},
		},
	}
)

// Default возвращает реестр всех сервисов.
func Default() *Registry {
	return NewRegistry(AuditManager, MediaPipelines, Wisdom, KMS)
}
