// Package requests holds the rule sets of the application's forms.
package requests

import "github.com/mohammadDV/new-mvc-framework/validation"

func Login() validation.Rules {
	return validation.Rules{
		"email":    "required|email",
		"password": "required|string|min:8",
	}
}

func Register() validation.Rules {
	return validation.Rules{
		"name":             "required|string|max:255",
		"email":            "required|email|unique:users,email",
		"password":         "required|string|min:8|confirmed",
		"confirm_password": "required|string|min:8",
	}
}

// User validates the admin "create user" form.
func User() validation.Rules {
	return Register()
}

// Post adds the image rules only when a file was uploaded.
func Post(hasImage bool) validation.Rules {
	rules := validation.Rules{
		"title":   "required|string|max:255",
		"content": "required|string|max:1000",
		"status":  "required|string|max:255",
	}
	if hasImage {
		rules["image"] = "required|file|mimes:jpeg,png,jpg,gif,webp|max:2048"
	}
	return rules
}
