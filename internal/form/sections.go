package form

// Confirmation field names. These gate entry into the wizard.
const (
	FieldProjectID = "project_id"
	FieldMarket    = "market"
	FieldAddress   = "address"

	// Looked-up project context lands in these section fields.
	FieldSalesPersonnel = "sales_personnel"
	FieldDesigner       = "designer"
)

// Markets served by the studio.
var Markets = []string{"San Francisco", "Los Angeles", "New York City", "Florida"}

const autofilledHint = "Auto-filled from project ID when available"

// Default returns the studio's project-close questionnaire. Each call builds
// a new value, so callers may modify the result freely.
func Default() *Schema {
	return &Schema{
		Confirm: []Field{
			{
				Name:        FieldProjectID,
				Label:       "What is the project ID?",
				Type:        TypeText,
				Required:    true,
				Placeholder: "e.g. VH-2025-001",
			},
			{
				Name:       FieldMarket,
				Label:      "Which market does this project belong to?",
				Type:       TypeSelect,
				Options:    append([]string(nil), Markets...),
				Required:   true,
				HelperText: autofilledHint,
			},
			{
				Name:       FieldAddress,
				Label:      "Please specify the address of this project",
				Type:       TypeText,
				Required:   true,
				HelperText: autofilledHint,
			},
		},
		Sections: []Section{
			projectSection(),
			designSection(),
			procurementSection(),
			installSection(),
			photographySection(),
			reflectionsSection(),
		},
	}
}

func projectSection() Section {
	return Section{
		ID:       "project",
		Title:    "Project Details",
		Subtitle: "Basic information about the project",
		Icon:     "01",
		Fields: []Field{
			{Name: "is_project_complete", Label: "Is the project/job complete?", Type: TypeBoolean, Required: true},
			{
				Name:     "service_in_focus",
				Label:    "What was the service in focus for this project?",
				Type:     TypeSelect,
				Options:  []string{"Occupied Staging", "Vacant Staging", "Model Home Staging", "Redesign", "Install Only", "Other"},
				Required: true,
			},
			{
				Name:  "design_style",
				Label: "What was the style of design for this project?",
				Type:  TypeSelect,
				Options: []string{
					"Modern", "Contemporary", "Transitional", "Traditional", "Mid-Century Modern",
					"Coastal", "Farmhouse", "Industrial", "Scandinavian", "Bohemian", "Other",
				},
				Required: true,
			},
			{Name: FieldSalesPersonnel, Label: "Who was the sales personnel assigned to this project?", Type: TypeText, Required: true},
			{Name: FieldDesigner, Label: "Who was the Designer on your project?", Type: TypeText, Required: true},
			{
				Name:        "other_partners",
				Label:       "Please list all other partners who worked on this project with you, if known",
				Type:        TypeTextarea,
				Placeholder: "e.g. listing agent, developer, architect, interior designer",
			},
		},
	}
}

func designSection() Section {
	return Section{
		ID:       "design",
		Title:    "Design & Inspiration",
		Subtitle: "Tell us about your creative vision",
		Icon:     "02",
		Fields: []Field{
			{Name: "design_inspiration", Label: "What inspired your design work in this project?", Type: TypeTextarea, Required: true, Rows: 4},
			{
				Name:     "hero_pieces",
				Label:    "What are the hero pieces in this project? (Min 3)",
				Type:     TypeTextarea,
				Required: true,
				Rows:     5,
				Placeholder: "Provide SKUs with names, one per line\ne.g.\n" +
					"SKU-12345 - Restoration Hardware Cloud Sofa\n" +
					"SKU-67890 - Arteriors Caviar Pendant\n" +
					"SKU-11111 - CB2 Gwyneth Boucle Chair",
				HelperText: "Minimum 3 pieces. Include SKU and name for each.",
			},
			{
				Name:       "favourite_aspect",
				Label:      "What was your favourite aspect of working on this project?",
				Type:       TypeTextarea,
				Required:   true,
				Rows:       3,
				HelperText: "Property specific: what stood out about this particular job?",
			},
			{
				Name:        "what_makes_property_unique",
				Label:       "What makes this property unique?",
				Type:        TypeTextarea,
				Required:    true,
				Rows:        4,
				Placeholder: "e.g. architectural details, location, standout features, or how the space reflects the style of your market",
			},
			{Name: "favourite_room", Label: "What is your favorite room and why?", Type: TypeTextarea, Required: true, Rows: 3},
		},
	}
}

func procurementSection() Section {
	return Section{
		ID:       "procurement",
		Title:    "Procurement & Inventory",
		Subtitle: "Items, reservations, and team coordination",
		Icon:     "03",
		Fields: []Field{
			{Name: "crew_performed_as_expected", Label: "Did the crew perform as expected?", Type: TypeBoolean, Required: true},
			{
				Name:        "crew_notes",
				Label:       "Any notes about crew performance?",
				Type:        TypeTextarea,
				Rows:        2,
				Conditional: &Conditional{Field: "crew_performed_as_expected", Value: false},
			},
			{
				Name:     "procurement_purchased",
				Label:    "Was anything purchased for this project by the procurement department?",
				Type:     TypeBoolean,
				Required: true,
			},
			{
				Name:        "procured_items_added_to_eames",
				Label:       "Were the procured items added to your EAMES page via the inventory team?",
				Type:        TypeBoolean,
				Conditional: &Conditional{Field: "procurement_purchased", Value: true},
			},
			{Name: "items_usable_condition", Label: "Did your selected items arrive in usable condition?", Type: TypeBoolean, Required: true},
			{
				Name:        "items_condition_notes",
				Label:       "Please describe any condition issues",
				Type:        TypeTextarea,
				Rows:        2,
				Conditional: &Conditional{Field: "items_usable_condition", Value: false},
			},
			{
				Name: "reserving_difficult_categories",
				Label: "When you were reserving, were there any categories that were particularly difficult " +
					"to work with or that you wished had more available options?",
				Type: TypeTextarea,
				Rows: 3,
			},
			{
				Name: "design_ops_communication_clear",
				Label: "Was communication clear coming from the design ops department when it came to " +
					"replacements and any other support you needed?",
				Type:     TypeBoolean,
				Required: true,
			},
			{
				Name:        "design_ops_communication_notes",
				Label:       "Please share details about communication issues",
				Type:        TypeTextarea,
				Rows:        2,
				Conditional: &Conditional{Field: "design_ops_communication_clear", Value: false},
			},
		},
	}
}

func installSection() Section {
	return Section{
		ID:       "install",
		Title:    "Install Day Operations",
		Subtitle: "How did the installation go?",
		Icon:     "04",
		Fields: []Field{
			{
				Name:       "adequate_prep_time",
				Label:      "Do you feel that you were given adequate time to prepare for the project?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "If no, please specify why",
			},
			{
				Name:       "schedule_received_before_5pm",
				Label:      "Did you receive your schedule for this install prior to 5pm on load day?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "If no, specify when you received the schedule",
			},
			{
				Name:     "notified_truck_departure",
				Label:    "Were you notified of truck departure/driver ETA on each day of install?",
				Type:     TypeBoolean,
				Required: true,
			},
			{
				Name:       "team_arrived_on_time",
				Label:      "Did your team arrive on time?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "If no, specify what time they arrived",
			},
			{Name: "lead_reviewed_plan", Label: "Did the lead take time to review the property/design plan with you?", Type: TypeBoolean, Required: true},
			{Name: "adequate_property_protection", Label: "Did the team provide adequate protection to the property?", Type: TypeBoolean, Required: true},
			{
				Name:     "received_everything_requested",
				Label:    "Did you receive everything you requested/reserved on each day of install?",
				Type:     TypeBoolean,
				Required: true,
			},
			{
				Name:       "offloading_delays",
				Label:      "Were there any delays or challenges with offloading the truck?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "Please describe (building or property related)",
			},
			{
				Name:       "team_had_tools",
				Label:      "Did the team have all tools and supplies necessary to complete a successful install?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "If no, specify what they were missing",
			},
			{
				Name:     "client_onsite",
				Label:    "Was the client (or client's representative) onsite during the install?",
				Type:     TypeBoolean,
				Required: true,
			},
			{
				Name:        "client_interfering",
				Label:       "Was the client interfering or in the way during the install?",
				Type:        TypeYesNoOther,
				Conditional: &Conditional{Field: "client_onsite", Value: true},
				OtherLabel:  "Please describe",
			},
			{Name: "trash_removed", Label: "Did the team remove all trash/debris prior to leaving for the day?", Type: TypeBoolean, Required: true},
			{
				Name:       "install_surprises",
				Label:      "Were there any surprises during the install that were not covered in the scope of work?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "Please describe the surprises",
			},
			{
				Name:       "other_contractors",
				Label:      "Were there any other contractors or vendors working onsite during the installation?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "Please describe who and what they were doing",
			},
			{
				Name:       "appropriate_resources",
				Label:      "Do you feel that you were given an appropriate amount of resources to complete the job successfully?",
				Type:       TypeYesNoOther,
				Required:   true,
				OtherLabel: "If no, specify why not",
			},
			{Name: "had_reception_internet", Label: "Did you have reception/access to internet on your jobsite?", Type: TypeBoolean, Required: true},
			{
				Name:       "additional_services",
				Label:      "Were there any additional services provided?",
				Type:       TypeYesNoOther,
				OtherLabel: "Please describe the additional services",
			},
		},
	}
}

func photographySection() Section {
	return Section{
		ID:       "photography",
		Title:    "Photography & Marketing",
		Subtitle: "Help us showcase your work",
		Icon:     "05",
		Fields: []Field{
			{Name: "worthy_of_photography", Label: "Is this project worthy of professional photography?", Type: TypeBoolean, Required: true},
			{
				Name:        "photography_folder_link",
				Label:       "Please provide the link to your project photos in the photography folder",
				Type:        TypeURL,
				Placeholder: "https://drive.google.com/...",
			},
			{
				Name:        "google_drive_photos_link",
				Label:       "Please provide the link to your photos in the Google Drive",
				Type:        TypeURL,
				Placeholder: "https://drive.google.com/...",
			},
			{
				Name:  "social_campaign_notes",
				Label: "Please share any other notes you may want to emphasize in a social post or email campaign",
				Type:  TypeTextarea,
				Rows:  4,
			},
		},
	}
}

func reflectionsSection() Section {
	return Section{
		ID:       "reflections",
		Title:    "Final Reflections",
		Subtitle: "Overall thoughts on the project",
		Icon:     "06",
		Fields: []Field{
			{Name: "enough_time_to_prep", Label: "Did you feel you had enough time to prep for your project?", Type: TypeBoolean, Required: true},
			{
				Name:        "prep_time_notes",
				Label:       "Any additional thoughts on prep time?",
				Type:        TypeTextarea,
				Rows:        2,
				Conditional: &Conditional{Field: "enough_time_to_prep", Value: false},
			},
		},
	}
}
