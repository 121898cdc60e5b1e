package cms

func text(key, label string) Field     { return Field{Key: key, Label: label, Type: FieldText} }
func textarea(key, label string) Field { return Field{Key: key, Label: label, Type: FieldTextarea} }
func url(key, label string) Field      { return Field{Key: key, Label: label, Type: FieldURL} }
func image(key, label string) ImageField {
	return ImageField{Key: key, Label: label}
}

func hero() Section {
	return Section{ID: "hero", Label: "Hero Section", Fields: []Field{
		text("hero_title", "Heading"),
		textarea("hero_subtitle", "Subtitle"),
	}}
}

// DefaultSchema returns the editable pages of the site.
func DefaultSchema() *Schema {
	return NewSchema([]PageSchema{
		{ID: GlobalPage, Label: "Global Settings", Sections: []Section{
			{ID: "header", Label: "Header & Branding", Fields: []Field{
				{Key: "site_name", Label: "Site Name", Type: FieldText, Placeholder: "Pal Classes"},
				{Key: "site_tagline", Label: "Tagline", Type: FieldText, Placeholder: "Where Excellence is a Tradition"},
				text("topbar_phone", "Top Bar Phone"),
				text("topbar_email", "Top Bar Email"),
				text("topbar_location", "Top Bar Location"),
			}, Images: []ImageField{image("site_logo", "Site Logo")}},
			{ID: "footer", Label: "Footer", Fields: []Field{
				textarea("footer_description", "Footer Description"),
				text("footer_copyright", "Copyright Text"),
				url("facebook_url", "Facebook URL"),
				url("instagram_url", "Instagram URL"),
				url("youtube_url", "YouTube URL"),
				text("whatsapp_number", "WhatsApp Number"),
			}},
			{ID: "contact_info", Label: "Contact Information", Fields: []Field{
				textarea("address", "Full Address"),
				text("phone1", "Phone 1"),
				text("phone2", "Phone 2"),
				text("email1", "Email 1"),
				text("email2", "Email 2"),
				textarea("working_hours", "Working Hours"),
				url("map_embed_url", "Google Map Embed URL"),
			}},
		}},
		{ID: "home", Label: "Home", Sections: []Section{
			{ID: "hero", Label: "Hero Section", Fields: []Field{
				text("hero_badge", "Badge Text"),
				text("hero_title", "Heading"),
				text("hero_highlight", "Highlight Text"),
				textarea("hero_subtitle", "Subtitle"),
				text("hero_btn1_text", "Button 1 Text"),
				url("hero_btn1_link", "Button 1 Link"),
				text("hero_btn2_text", "Button 2 Text"),
				url("hero_btn2_link", "Button 2 Link"),
			}, Images: []ImageField{image("hero_image", "Hero Background Image")}},
			{ID: "highlights", Label: "Why Choose Us (Highlights)", Fields: []Field{
				text("highlights_title", "Section Title"),
				textarea("highlights_subtitle", "Section Subtitle"),
			}, List: &ListSpec{Key: "highlight", Label: "Highlight Card", MaxItems: 6, Fields: []Field{
				text("title", "Title"),
				textarea("desc", "Description"),
				text("icon", "Icon Name"),
			}}},
			{ID: "stats", Label: "Statistics", List: &ListSpec{Key: "stat", Label: "Stat Item", MaxItems: 4, Fields: []Field{
				text("value", "Value"),
				text("suffix", "Suffix"),
				text("label", "Label"),
			}}},
			{ID: "facilities_preview", Label: "Facilities Preview", Fields: []Field{
				text("facilities_title", "Section Title"),
				textarea("facilities_subtitle", "Section Subtitle"),
			}, List: &ListSpec{Key: "facility", Label: "Facility Card", MaxItems: 8, Fields: []Field{
				text("title", "Title"),
				textarea("desc", "Description"),
			}}},
			{ID: "programs", Label: "Programs Preview", Fields: []Field{
				text("programs_title", "Section Title"),
				textarea("programs_subtitle", "Section Subtitle"),
			}, List: &ListSpec{Key: "program", Label: "Program Card", MaxItems: 4, Fields: []Field{
				text("title", "Title"),
				text("subjects", "Subjects"),
				text("icon", "Icon/Emoji"),
			}}},
			{ID: "testimonials", Label: "Testimonials", Fields: []Field{
				text("testimonials_title", "Section Title"),
			}, List: &ListSpec{Key: "testimonial", Label: "Testimonial", MaxItems: 10, Fields: []Field{
				text("name", "Name"),
				text("class", "Class / Role"),
				textarea("text", "Testimonial Text"),
				{Key: "rating", Label: "Rating (1-5)", Type: FieldNumber},
			}}},
			{ID: "cta", Label: "Call to Action", Fields: []Field{
				text("cta_title", "Heading"),
				textarea("cta_subtitle", "Subtitle"),
				text("cta_btn1_text", "Button 1 Text"),
				url("cta_btn1_link", "Button 1 Link"),
				text("cta_btn2_text", "Button 2 Text"),
				url("cta_btn2_link", "Button 2 Link"),
			}},
		}},
		{ID: "about", Label: "About Us", Sections: []Section{
			hero(),
			{ID: "vision", Label: "Vision & Mission", Fields: []Field{
				text("vision_title", "Vision Title"),
				textarea("vision_text", "Vision Text"),
				text("mission_title", "Mission Title"),
				textarea("mission_text", "Mission Text"),
			}, Images: []ImageField{image("classroom_image", "Classroom Image")}},
			{ID: "founder", Label: "Founder's Message", Fields: []Field{
				text("founder_name", "Founder Name"),
				text("founder_title", "Founder Title"),
				textarea("founder_message", "Message"),
			}, Images: []ImageField{image("founder_image", "Founder Photo")}},
			{ID: "methodology", Label: "Teaching Methodology", Fields: []Field{
				text("methodology_title", "Section Title"),
			}, Images: []ImageField{image("students_image", "Students Image")},
				List: &ListSpec{Key: "method", Label: "Method Item", MaxItems: 10, Fields: []Field{
					text("text", "Item Text"),
				}}},
			{ID: "why_choose", Label: "Why Choose Pal Classes", Fields: []Field{
				text("why_title", "Section Title"),
			}, List: &ListSpec{Key: "reason", Label: "Reason", MaxItems: 6, Fields: []Field{
				text("title", "Title"),
				textarea("desc", "Description"),
			}}},
		}},
		{ID: "courses", Label: "Courses", Sections: []Section{
			hero(),
			{ID: "course_list", Label: "Courses", List: &ListSpec{Key: "course", Label: "Course", MaxItems: 6, Fields: []Field{
				text("level", "Level Name"),
				text("classes", "Classes"),
				text("icon", "Icon/Emoji"),
				text("subjects", "Subjects (comma separated)"),
				textarea("features", "Features (comma separated)"),
				text("duration", "Duration"),
				textarea("method", "Teaching Method"),
				text("batchSize", "Batch Size"),
			}}},
		}},
		{ID: "facilities", Label: "Facilities", Sections: []Section{
			{ID: "hero", Label: "Hero Section", Fields: []Field{
				text("hero_badge", "Badge Text"),
				text("hero_title", "Heading"),
				textarea("hero_subtitle", "Subtitle"),
			}},
			{ID: "stats", Label: "Stats Bar", List: &ListSpec{Key: "stat", Label: "Stat", MaxItems: 4, Fields: []Field{
				text("value", "Value"),
				text("label", "Label"),
			}}},
			{ID: "facility_list", Label: "Facilities Detail", List: &ListSpec{Key: "facility", Label: "Facility", MaxItems: 8,
				Fields: []Field{
					text("title", "Title"),
					textarea("desc", "Description"),
					textarea("highlights", "Highlights (comma separated)"),
				},
				Images: []ImageField{image("image", "Facility Image")},
			}},
			{ID: "cta", Label: "Call to Action", Fields: []Field{
				text("cta_title", "Heading"),
				textarea("cta_subtitle", "Subtitle"),
				text("cta_btn_text", "Button Text"),
				url("cta_btn_link", "Button Link"),
			}},
		}},
		{ID: "results", Label: "Results", Sections: []Section{
			hero(),
			{ID: "toppers", Label: "Toppers", Fields: []Field{
				text("toppers_title", "Section Title"),
			}, Images: []ImageField{image("celebrating_image", "Celebration Image")},
				List: &ListSpec{Key: "topper", Label: "Topper", MaxItems: 20,
					Fields: []Field{
						text("name", "Name"),
						text("class", "Exam/Board"),
						text("score", "Score"),
						text("year", "Year"),
					},
					Images: []ImageField{image("photo", "Topper Photo")},
				}},
			{ID: "achievements", Label: "Awards & Recognition", Fields: []Field{
				text("achievements_title", "Section Title"),
			}, List: &ListSpec{Key: "achievement", Label: "Achievement", MaxItems: 8, Fields: []Field{
				text("title", "Title"),
				textarea("desc", "Description"),
			}}},
		}},
		{ID: "gallery", Label: "Gallery", Sections: []Section{
			hero(),
			{ID: "images", Label: "Gallery Images", Fields: []Field{
				{Key: "categories", Label: "Categories (comma separated)", Type: FieldText, Placeholder: "All,Classrooms,Teaching,Activities,Events"},
			}, List: &ListSpec{Key: "gallery_item", Label: "Gallery Image", MaxItems: 30,
				Fields: []Field{
					text("alt", "Alt Text / Caption"),
					text("category", "Category"),
				},
				Images: []ImageField{image("image", "Image")},
			}},
		}},
		{ID: "admission", Label: "Admission", Sections: []Section{
			hero(),
			{ID: "process", Label: "Admission Process", Fields: []Field{
				text("process_title", "Section Title"),
			}, List: &ListSpec{Key: "step", Label: "Step", MaxItems: 6, Fields: []Field{
				text("title", "Step Title"),
				textarea("desc", "Description"),
			}}},
			{ID: "fees", Label: "Fee Structure", Fields: []Field{
				text("fees_title", "Section Title"),
				textarea("fees_note", "Note"),
			}, List: &ListSpec{Key: "fee", Label: "Fee Level", MaxItems: 6, Fields: []Field{
				text("level", "Level Name"),
				text("monthly", "Monthly Fee"),
				text("yearly", "Yearly Fee"),
			}}},
		}},
		{ID: "contact", Label: "Contact", Sections: []Section{
			hero(),
			{ID: "info", Label: "Contact Page Content", Fields: []Field{
				text("contact_heading", "Section Heading"),
				textarea("contact_text", "Section Text"),
				text("form_heading", "Form Heading"),
			}},
		}},
	})
}
